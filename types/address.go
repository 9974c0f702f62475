package types

import (
	"bytes"
	"fmt"

	"github.com/ava-labs/libevm/common"
	"github.com/btcsuite/btcutil/bech32"
)

// AccountAddress is a Cosmos account identifier: 20 bytes for key-derived
// accounts, 32 bytes for module and contract accounts.
type AccountAddress struct {
	Prefix string
	Bytes  []byte
}

func NewAccountAddress(prefix string, b []byte) (AccountAddress, error) {
	if len(b) != 20 && len(b) != 32 {
		return AccountAddress{}, fmt.Errorf("account address must be 20 or 32 bytes, got %d", len(b))
	}
	return AccountAddress{Prefix: prefix, Bytes: append([]byte(nil), b...)}, nil
}

// ParseAccountAddress decodes a bech32 account address such as "neutron1...".
func ParseAccountAddress(s string) (AccountAddress, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return AccountAddress{}, fmt.Errorf("invalid bech32 address %q: %w", s, err)
	}
	b, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return AccountAddress{}, fmt.Errorf("invalid bech32 payload in %q: %w", s, err)
	}
	return NewAccountAddress(hrp, b)
}

// String renders the address as bech32. An address that cannot be encoded
// falls back to hex.
func (a AccountAddress) String() string {
	conv, err := bech32.ConvertBits(a.Bytes, 8, 5, true)
	if err != nil {
		return common.Bytes2Hex(a.Bytes)
	}
	encoded, err := bech32.Encode(a.Prefix, conv)
	if err != nil {
		return common.Bytes2Hex(a.Bytes)
	}
	return encoded
}

// Digest left-pads the address bytes to 32 bytes.
func (a AccountAddress) Digest() common.Hash {
	return common.BytesToHash(a.Bytes)
}

func (a AccountAddress) Equal(other AccountAddress) bool {
	return a.Prefix == other.Prefix && bytes.Equal(a.Bytes, other.Bytes)
}

func (a AccountAddress) IsZero() bool {
	return len(a.Bytes) == 0
}

func (a AccountAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
