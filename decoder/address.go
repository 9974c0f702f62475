package decoder

import (
	"crypto/sha256"
	"fmt"

	"github.com/allora-network/cosmos-txn-decoder/types"
	"github.com/ava-labs/libevm/crypto"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // cosmos addresses are defined over ripemd160
)

const (
	compressedSecp256k1Len   = 33
	uncompressedSecp256k1Len = 65
	ed25519KeyLen            = 32
	truncatedAddressLen      = 20
)

// DeriveAddress derives the account address of a canonical key.
func (d *Decoder) DeriveAddress(key CanonicalKey, style AddressStyle) (types.AccountAddress, error) {
	var raw []byte
	var err error
	switch style {
	case AddressStyleBitcoin:
		raw, err = bitcoinStyleAddress(key)
	case AddressStyleEthereum:
		raw, err = ethereumStyleAddress(key)
	default:
		err = fmt.Errorf("unknown address style %d", style)
	}
	if err != nil {
		return types.AccountAddress{}, fmt.Errorf("%w: %v", ErrAddressDerivation, err)
	}
	return types.NewAccountAddress(d.cfg.Bech32Prefix, raw)
}

func bitcoinStyleAddress(key CanonicalKey) ([]byte, error) {
	switch key.Kind {
	case KeySecp256k1:
		if len(key.Bytes) != compressedSecp256k1Len {
			return nil, fmt.Errorf("secp256k1 key must be %d bytes compressed, got %d", compressedSecp256k1Len, len(key.Bytes))
		}
		sha := sha256.Sum256(key.Bytes)
		hasher := ripemd160.New()
		hasher.Write(sha[:])
		return hasher.Sum(nil), nil
	case KeyEd25519:
		if len(key.Bytes) != ed25519KeyLen {
			return nil, fmt.Errorf("ed25519 key must be %d bytes, got %d", ed25519KeyLen, len(key.Bytes))
		}
		sum := sha256.Sum256(key.Bytes)
		return sum[:truncatedAddressLen], nil
	case KeyLegacyMultisig:
		if len(key.Bytes) <= len(aminoPrefixMultisig) {
			return nil, fmt.Errorf("empty multisig key")
		}
		sum := sha256.Sum256(key.Bytes)
		return sum[:truncatedAddressLen], nil
	default:
		return nil, fmt.Errorf("unknown key kind %d", key.Kind)
	}
}

func ethereumStyleAddress(key CanonicalKey) ([]byte, error) {
	if key.Kind != KeySecp256k1 {
		return nil, fmt.Errorf("ethereum style addresses need a secp256k1 key")
	}
	switch len(key.Bytes) {
	case uncompressedSecp256k1Len:
		pub, err := crypto.UnmarshalPubkey(key.Bytes)
		if err != nil {
			return nil, err
		}
		addr := crypto.PubkeyToAddress(*pub)
		return addr.Bytes(), nil
	case compressedSecp256k1Len:
		pub, err := crypto.DecompressPubkey(key.Bytes)
		if err != nil {
			return nil, err
		}
		addr := crypto.PubkeyToAddress(*pub)
		return addr.Bytes(), nil
	default:
		return nil, fmt.Errorf("secp256k1 key has invalid length %d", len(key.Bytes))
	}
}
