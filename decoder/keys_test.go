package decoder

import (
	"bytes"
	"testing"

	"github.com/allora-network/cosmos-txn-decoder/types"
	"github.com/ava-labs/libevm/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePublicKey(t *testing.T) {
	compressed := compressedKey(t, aliceKeyHex)
	edKey := bytes.Repeat([]byte{0x42}, 32)

	tests := []struct {
		name      string
		key       types.PublicKey
		wantBytes []byte
		wantKind  KeyKind
		wantStyle AddressStyle
	}{
		{
			name:      "single secp256k1",
			key:       types.SinglePublicKey{Key: compressed, Curve: types.CurveSecp256k1},
			wantBytes: compressed,
			wantKind:  KeySecp256k1,
			wantStyle: AddressStyleBitcoin,
		},
		{
			name:      "single ed25519",
			key:       types.SinglePublicKey{Key: edKey, Curve: types.CurveEd25519},
			wantBytes: edKey,
			wantKind:  KeyEd25519,
			wantStyle: AddressStyleBitcoin,
		},
		{
			name:      "wrapped secp256k1",
			key:       types.AnyPublicKey{TypeURL: Secp256k1PubKeyTypeURL, Value: encodePubKey(compressed)},
			wantBytes: compressed,
			wantKind:  KeySecp256k1,
			wantStyle: AddressStyleBitcoin,
		},
		{
			name:      "wrapped ed25519",
			key:       types.AnyPublicKey{TypeURL: Ed25519PubKeyTypeURL, Value: encodePubKey(edKey)},
			wantBytes: edKey,
			wantKind:  KeyEd25519,
			wantStyle: AddressStyleBitcoin,
		},
		{
			name:      "ethsecp256k1 is decompressed",
			key:       types.AnyPublicKey{TypeURL: EthSecp256k1PubKeyTypeURL, Value: encodePubKey(compressed)},
			wantBytes: crypto.FromECDSAPub(&testKey(t, aliceKeyHex).PublicKey),
			wantKind:  KeySecp256k1,
			wantStyle: AddressStyleEthereum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, buf := newTestDecoder(t, testConfig)
			key, style, err := d.NormalizePublicKey(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBytes, key.Bytes)
			assert.Equal(t, tt.wantKind, key.Kind)
			assert.Equal(t, tt.wantStyle, style)
			assert.Empty(t, buf.String())
		})
	}
}

func TestNormalizePublicKey_Multisig(t *testing.T) {
	d, _ := newTestDecoder(t, testConfig)
	ms := types.LegacyMultisigPublicKey{
		Threshold: 2,
		PublicKeys: []types.SinglePublicKey{
			{Key: compressedKey(t, aliceKeyHex), Curve: types.CurveSecp256k1},
			{Key: compressedKey(t, bobKeyHex), Curve: types.CurveSecp256k1},
		},
	}

	key, style, err := d.NormalizePublicKey(ms)
	require.NoError(t, err)
	assert.Equal(t, KeyLegacyMultisig, key.Kind)
	assert.Equal(t, AddressStyleBitcoin, style)

	// prefix, threshold field, then one length-delimited entry per member
	assert.Equal(t, []byte{0x22, 0xc1, 0xf7, 0xe2, 0x08, 0x02, 0x12, 0x26, 0xeb, 0x5a, 0xe9, 0x87, 0x21}, key.Bytes[:13])
	assert.Len(t, key.Bytes, 4+2+2*(2+4+1+33))
}

func TestNormalizePublicKey_Errors(t *testing.T) {
	t.Run("unknown type url", func(t *testing.T) {
		d, buf := newTestDecoder(t, testConfig)
		url := "/ethermint.crypto.v1.ethsecp256k1.PubKey"
		_, _, err := d.NormalizePublicKey(types.AnyPublicKey{TypeURL: url, Value: encodePubKey(compressedKey(t, aliceKeyHex))})

		require.ErrorIs(t, err, ErrUnrecognizedKeyType)
		var unrecognized *UnrecognizedKeyTypeError
		require.ErrorAs(t, err, &unrecognized)
		assert.Equal(t, url, unrecognized.TypeURL)
		assert.Contains(t, buf.String(), url)
		assert.Contains(t, buf.String(), `"level":"warn"`)
	})

	t.Run("undecodable payload", func(t *testing.T) {
		d, _ := newTestDecoder(t, testConfig)
		_, _, err := d.NormalizePublicKey(types.AnyPublicKey{TypeURL: Secp256k1PubKeyTypeURL, Value: []byte{0x0a, 0x05}})
		require.ErrorIs(t, err, ErrPublicKeyEncoding)
	})

	t.Run("undecodable multisig payload", func(t *testing.T) {
		d, buf := newTestDecoder(t, testConfig)
		_, _, err := d.NormalizePublicKey(types.AnyPublicKey{TypeURL: LegacyAminoPubKeyTypeURL, Value: []byte{0x12, 0x05}})
		require.ErrorIs(t, err, ErrPublicKeyEncoding)
		assert.NotErrorIs(t, err, ErrUnrecognizedKeyType)
		assert.NotContains(t, buf.String(), `"level":"warn"`)
	})

	t.Run("multisig payload survives parsing as a wrapped key", func(t *testing.T) {
		d, _ := newTestDecoder(t, testConfig)
		wrapped := unwrapPublicKey(types.Any{TypeURL: LegacyAminoPubKeyTypeURL, Value: []byte{0x12, 0x05}})
		require.IsType(t, types.AnyPublicKey{}, wrapped)
		_, _, err := d.NormalizePublicKey(wrapped)
		require.ErrorIs(t, err, ErrPublicKeyEncoding)
	})

	t.Run("ethsecp256k1 off the curve", func(t *testing.T) {
		d, _ := newTestDecoder(t, testConfig)
		bad := append([]byte{0x02}, bytes.Repeat([]byte{0xff}, 32)...)
		_, _, err := d.NormalizePublicKey(types.AnyPublicKey{TypeURL: EthSecp256k1PubKeyTypeURL, Value: encodePubKey(bad)})
		require.ErrorIs(t, err, ErrPublicKeyEncoding)
	})

	t.Run("missing key", func(t *testing.T) {
		d, _ := newTestDecoder(t, testConfig)
		_, _, err := d.NormalizePublicKey(nil)
		require.ErrorIs(t, err, ErrPublicKeyEncoding)
	})
}
