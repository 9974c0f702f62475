package decoder

import (
	"fmt"

	"github.com/allora-network/cosmos-txn-decoder/types"
	"github.com/ava-labs/libevm/crypto"
	"google.golang.org/protobuf/encoding/protowire"
)

// AddressStyle selects how an account address is derived from a key.
type AddressStyle int

const (
	// AddressStyleBitcoin hashes the compressed key (sha256 then ripemd160),
	// the Cosmos default.
	AddressStyleBitcoin AddressStyle = iota
	// AddressStyleEthereum takes the last 20 bytes of keccak256 over the
	// uncompressed key.
	AddressStyleEthereum
)

func (s AddressStyle) String() string {
	if s == AddressStyleEthereum {
		return "ethereum"
	}
	return "bitcoin"
}

type KeyKind int

const (
	KeySecp256k1 KeyKind = iota
	KeyEd25519
	// KeyLegacyMultisig keys hold the amino encoding of the multisig.
	KeyLegacyMultisig
)

// CanonicalKey is a public key reduced to bytes plus the kind needed to
// derive an address from it.
type CanonicalKey struct {
	Bytes []byte
	Kind  KeyKind
}

// amino prefixes of the tendermint/PubKey* concrete types.
var (
	aminoPrefixSecp256k1 = []byte{0xeb, 0x5a, 0xe9, 0x87}
	aminoPrefixEd25519   = []byte{0x16, 0x24, 0xde, 0x64}
	aminoPrefixMultisig  = []byte{0x22, 0xc1, 0xf7, 0xe2}
)

// NormalizePublicKey converts any supported key encoding into a canonical key
// and the address style that goes with it.
func (d *Decoder) NormalizePublicKey(pk types.PublicKey) (CanonicalKey, AddressStyle, error) {
	switch pk := pk.(type) {
	case types.SinglePublicKey:
		return canonicalSingle(pk), AddressStyleBitcoin, nil
	case types.LegacyMultisigPublicKey:
		return CanonicalKey{Bytes: aminoMultisig(pk), Kind: KeyLegacyMultisig}, AddressStyleBitcoin, nil
	case types.AnyPublicKey:
		return d.normalizeAny(pk)
	case nil:
		return CanonicalKey{}, 0, fmt.Errorf("%w: no public key", ErrPublicKeyEncoding)
	default:
		return CanonicalKey{}, 0, fmt.Errorf("%w: unsupported public key variant %T", ErrPublicKeyEncoding, pk)
	}
}

func (d *Decoder) normalizeAny(pk types.AnyPublicKey) (CanonicalKey, AddressStyle, error) {
	switch pk.TypeURL {
	case Ed25519PubKeyTypeURL, Secp256k1PubKeyTypeURL:
		single, err := singleFromAny(types.Any{TypeURL: pk.TypeURL, Value: pk.Value})
		if err != nil {
			return CanonicalKey{}, 0, fmt.Errorf("%w: %v", ErrPublicKeyEncoding, err)
		}
		return canonicalSingle(single), AddressStyleBitcoin, nil

	case LegacyAminoPubKeyTypeURL:
		ms, err := parseLegacyAminoPubKey(pk.Value)
		if err != nil {
			return CanonicalKey{}, 0, fmt.Errorf("%w: %v", ErrPublicKeyEncoding, err)
		}
		return CanonicalKey{Bytes: aminoMultisig(ms), Kind: KeyLegacyMultisig}, AddressStyleBitcoin, nil

	case EthSecp256k1PubKeyTypeURL:
		// The payload is a regular compressed secp256k1 PubKey.
		compressed, err := parsePubKeyBytes(pk.Value)
		if err != nil {
			return CanonicalKey{}, 0, fmt.Errorf("%w: %v", ErrPublicKeyEncoding, err)
		}
		pub, err := crypto.DecompressPubkey(compressed)
		if err != nil {
			return CanonicalKey{}, 0, fmt.Errorf("%w: decompress %s key: %v", ErrPublicKeyEncoding, pk.TypeURL, err)
		}
		return CanonicalKey{Bytes: crypto.FromECDSAPub(pub), Kind: KeySecp256k1}, AddressStyleEthereum, nil

	default:
		d.log.Warn().
			Str("type_url", pk.TypeURL).
			Msg("can only normalize public keys with a known type URL")
		return CanonicalKey{}, 0, &UnrecognizedKeyTypeError{TypeURL: pk.TypeURL}
	}
}

func canonicalSingle(pk types.SinglePublicKey) CanonicalKey {
	kind := KeySecp256k1
	if pk.Curve == types.CurveEd25519 {
		kind = KeyEd25519
	}
	return CanonicalKey{Bytes: append([]byte(nil), pk.Key...), Kind: kind}
}

// aminoMultisig encodes a legacy multisig key the way the legacy amino codec
// does, which is what its account address is hashed from.
func aminoMultisig(pk types.LegacyMultisigPublicKey) []byte {
	b := append([]byte(nil), aminoPrefixMultisig...)
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(pk.Threshold))
	for _, member := range pk.PublicKeys {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, aminoSingle(member))
	}
	return b
}

func aminoSingle(pk types.SinglePublicKey) []byte {
	prefix := aminoPrefixSecp256k1
	if pk.Curve == types.CurveEd25519 {
		prefix = aminoPrefixEd25519
	}
	b := append([]byte(nil), prefix...)
	return protowire.AppendBytes(b, pk.Key)
}
