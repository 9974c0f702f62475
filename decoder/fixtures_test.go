package decoder

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/allora-network/cosmos-txn-decoder/types"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/crypto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

var testConfig = Config{
	NativeDenom:    "untrn",
	NativeDecimals: 6,
	Bech32Prefix:   "neutron",
}

func newTestDecoder(t *testing.T, cfg Config) (*Decoder, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	d, err := New(cfg, zerolog.New(&buf))
	require.NoError(t, err)
	return d, &buf
}

func testKey(t *testing.T, hexKey string) *ecdsa.PrivateKey {
	t.Helper()
	key, err := crypto.HexToECDSA(hexKey)
	require.NoError(t, err)
	return key
}

const (
	aliceKeyHex = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"
	bobKeyHex   = "8a1f9a8f95be41cd7ccb6168179afb4504aefe388d1e14474d32c45c72ce7b7a"
)

func compressedKey(t *testing.T, hexKey string) []byte {
	t.Helper()
	return crypto.CompressPubkey(&testKey(t, hexKey).PublicKey)
}

func testContract(b byte) types.AccountAddress {
	return types.AccountAddress{Prefix: "neutron", Bytes: bytes.Repeat([]byte{b}, 32)}
}

func encodeAny(typeURL string, value []byte) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, typeURL)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, value)
	return b
}

func encodePubKey(key []byte) []byte {
	b := protowire.AppendTag(nil, 1, protowire.BytesType)
	return protowire.AppendBytes(b, key)
}

func pubKeyAny(typeURL string, key []byte) []byte {
	return encodeAny(typeURL, encodePubKey(key))
}

func executeContractMsg(contract string) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, "neutron1sender")
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, contract)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte(`{"dispatch":{}}`))
	return encodeAny(ExecuteContractTypeURL, b)
}

func encodeCoin(denom, amount string) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, denom)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, amount)
	return b
}

type testSigner struct {
	pubKeyAny []byte // nil means no key
	sequence  uint64
}

// txBuilder assembles TxRaw bytes field by field.
type txBuilder struct {
	messages [][]byte
	memo     string
	signers  []testSigner
	coins    [][]byte
	gasLimit uint64
	payer    string
	granter  string
}

func (tb txBuilder) body() []byte {
	var b []byte
	for _, m := range tb.messages {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, m)
	}
	if tb.memo != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, tb.memo)
	}
	return b
}

func (tb txBuilder) authInfo() []byte {
	var b []byte
	for _, s := range tb.signers {
		var si []byte
		if s.pubKeyAny != nil {
			si = protowire.AppendTag(si, 1, protowire.BytesType)
			si = protowire.AppendBytes(si, s.pubKeyAny)
		}
		si = protowire.AppendTag(si, 3, protowire.VarintType)
		si = protowire.AppendVarint(si, s.sequence)
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, si)
	}

	var fee []byte
	for _, c := range tb.coins {
		fee = protowire.AppendTag(fee, 1, protowire.BytesType)
		fee = protowire.AppendBytes(fee, c)
	}
	fee = protowire.AppendTag(fee, 2, protowire.VarintType)
	fee = protowire.AppendVarint(fee, tb.gasLimit)
	if tb.payer != "" {
		fee = protowire.AppendTag(fee, 3, protowire.BytesType)
		fee = protowire.AppendString(fee, tb.payer)
	}
	if tb.granter != "" {
		fee = protowire.AppendTag(fee, 4, protowire.BytesType)
		fee = protowire.AppendString(fee, tb.granter)
	}
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, fee)
	return b
}

func (tb txBuilder) build() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, tb.body())
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, tb.authInfo())
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, bytes.Repeat([]byte{0x01}, 64))
	return b
}

// txResponse wraps raw bytes the way the node returns them.
func txResponse(raw []byte, gasWanted, gasUsed string) (types.TxResponse, common.Hash) {
	hash := common.Hash(sha256.Sum256(raw))
	var resp types.TxResponse
	resp.Hash = strings.ToUpper(hex.EncodeToString(hash[:]))
	resp.Height = "100"
	resp.TxResult.GasWanted = gasWanted
	resp.TxResult.GasUsed = gasUsed
	resp.Tx = raw
	return resp, hash
}
