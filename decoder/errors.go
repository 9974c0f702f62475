package decoder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ava-labs/libevm/common"
)

var (
	ErrHashMismatch               = errors.New("hash mismatch")
	ErrUnrecognizedKeyType        = errors.New("unrecognized public key type")
	ErrPublicKeyEncoding          = errors.New("public key encoding error")
	ErrAddressDerivation          = errors.New("address derivation error")
	ErrNoSignerInfo               = errors.New("no signer info")
	ErrNoContractMessage          = errors.New("could not find contract execution message")
	ErrMultipleContractMessages   = errors.New("transaction contains multiple contract execution messages")
	ErrUnsupportedFeeDenomination = errors.New("transaction contains fees in unsupported denominations")
	ErrMalformedTransactionBytes  = errors.New("malformed transaction bytes")
	ErrMalformedResponse          = errors.New("malformed node response")
	ErrEmptyBlock                 = errors.New("empty block info")
	ErrFeeOverflow                = errors.New("fee amount overflows 256 bits")
)

type HashMismatchError struct {
	Expected common.Hash
	Received common.Hash
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("%s: expected hash %s, received hash %s", ErrHashMismatch, e.Expected.Hex(), e.Received.Hex())
}

func (e *HashMismatchError) Unwrap() error { return ErrHashMismatch }

type UnrecognizedKeyTypeError struct {
	TypeURL string
}

func (e *UnrecognizedKeyTypeError) Error() string {
	return fmt.Sprintf("%s %q: can only normalize public keys with a known type URL: %s, %s, %s",
		ErrUnrecognizedKeyType, e.TypeURL, Ed25519PubKeyTypeURL, Secp256k1PubKeyTypeURL, EthSecp256k1PubKeyTypeURL)
}

func (e *UnrecognizedKeyTypeError) Unwrap() error { return ErrUnrecognizedKeyType }

type MultipleContractMessagesError struct {
	Count int
}

func (e *MultipleContractMessagesError) Error() string {
	return fmt.Sprintf("%s: found %d", ErrMultipleContractMessages, e.Count)
}

func (e *MultipleContractMessagesError) Unwrap() error { return ErrMultipleContractMessages }

type UnsupportedDenominationError struct {
	Supported string
	Denoms    []string
}

func (e *UnsupportedDenominationError) Error() string {
	return fmt.Sprintf("%s (supported %s, found %s), manual intervention is required",
		ErrUnsupportedFeeDenomination, e.Supported, strings.Join(e.Denoms, ", "))
}

func (e *UnsupportedDenominationError) Unwrap() error { return ErrUnsupportedFeeDenomination }

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedTransactionBytes, fmt.Sprintf(format, args...))
}
