package types

import (
	"github.com/holiman/uint256"
)

// RawTransaction is a decoded cosmos.tx.v1beta1.Tx.
type RawTransaction struct {
	Body       TxBody
	AuthInfo   AuthInfo
	Signatures [][]byte
}

type TxBody struct {
	Messages      []Any
	Memo          string
	TimeoutHeight uint64
}

// Any mirrors google.protobuf.Any.
type Any struct {
	TypeURL string
	Value   []byte
}

type AuthInfo struct {
	SignerInfos []SignerInfo
	Fee         Fee
}

type Fee struct {
	Amount   []Coin
	GasLimit uint64
	// Payer is nil when the transaction does not name a fee payer.
	Payer   *AccountAddress
	Granter string
}

type Coin struct {
	Denom  string
	Amount *uint256.Int
}

type SignerInfo struct {
	// PublicKey is nil when the signer did not attach one.
	PublicKey PublicKey
	Sequence  uint64
}

type Curve int

const (
	CurveSecp256k1 Curve = iota
	CurveEd25519
)

func (c Curve) String() string {
	switch c {
	case CurveSecp256k1:
		return "secp256k1"
	case CurveEd25519:
		return "ed25519"
	default:
		return "unknown"
	}
}

// PublicKey is one of SinglePublicKey, LegacyMultisigPublicKey or
// AnyPublicKey.
type PublicKey interface {
	isPublicKey()
}

// SinglePublicKey is a key embedded directly with its curve.
type SinglePublicKey struct {
	Key   []byte
	Curve Curve
}

// LegacyMultisigPublicKey is a cosmos.crypto.multisig.LegacyAminoPubKey.
type LegacyMultisigPublicKey struct {
	Threshold  uint32
	PublicKeys []SinglePublicKey
}

// AnyPublicKey is a key wrapped in a type URL that was not unwrapped while
// parsing.
type AnyPublicKey struct {
	TypeURL string
	Value   []byte
}

func (SinglePublicKey) isPublicKey()         {}
func (LegacyMultisigPublicKey) isPublicKey() {}
func (AnyPublicKey) isPublicKey()            {}
