package decoder

import (
	"github.com/allora-network/cosmos-txn-decoder/types"
	"github.com/holiman/uint256"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	Secp256k1PubKeyTypeURL    = "/cosmos.crypto.secp256k1.PubKey"
	Ed25519PubKeyTypeURL      = "/cosmos.crypto.ed25519.PubKey"
	LegacyAminoPubKeyTypeURL  = "/cosmos.crypto.multisig.LegacyAminoPubKey"
	EthSecp256k1PubKeyTypeURL = "/injective.crypto.v1beta1.ethsecp256k1.PubKey"
	ExecuteContractTypeURL    = "/cosmwasm.wasm.v1.MsgExecuteContract"
)

// field is one decoded protobuf field. Bytes is set for length-delimited
// fields, Varint for varint fields.
type field struct {
	Num    protowire.Number
	Type   protowire.Type
	Bytes  []byte
	Varint uint64
}

// walkFields calls visit for every field of a serialized message. Fixed-width
// and group fields are skipped.
func walkFields(b []byte, visit func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{Num: num, Type: typ}
		switch typ {
		case protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			f.Bytes, n = v, m
		case protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			f.Varint, n = v, m
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			b = b[m:]
			continue
		}
		b = b[n:]

		if err := visit(f); err != nil {
			return err
		}
	}
	return nil
}

func expectType(f field, want protowire.Type, msg string) error {
	if f.Type != want {
		return malformed("%s field %d has wire type %d", msg, f.Num, f.Type)
	}
	return nil
}

// ParseTx decodes TxRaw bytes as returned by the node.
func ParseTx(raw []byte) (*types.RawTransaction, error) {
	var bodyBytes, authInfoBytes []byte
	var tx types.RawTransaction

	err := walkFields(raw, func(f field) error {
		if f.Num < 1 || f.Num > 3 {
			return nil
		}
		if err := expectType(f, protowire.BytesType, "TxRaw"); err != nil {
			return err
		}
		switch f.Num {
		case 1:
			bodyBytes = f.Bytes
		case 2:
			authInfoBytes = f.Bytes
		case 3:
			tx.Signatures = append(tx.Signatures, append([]byte(nil), f.Bytes...))
		}
		return nil
	})
	if err != nil {
		return nil, malformed("TxRaw: %v", err)
	}

	if tx.Body, err = parseTxBody(bodyBytes); err != nil {
		return nil, err
	}
	if tx.AuthInfo, err = parseAuthInfo(authInfoBytes); err != nil {
		return nil, err
	}
	return &tx, nil
}

func parseTxBody(b []byte) (types.TxBody, error) {
	var body types.TxBody
	err := walkFields(b, func(f field) error {
		switch f.Num {
		case 1:
			if err := expectType(f, protowire.BytesType, "TxBody"); err != nil {
				return err
			}
			msg, err := parseAny(f.Bytes)
			if err != nil {
				return err
			}
			body.Messages = append(body.Messages, msg)
		case 2:
			if err := expectType(f, protowire.BytesType, "TxBody"); err != nil {
				return err
			}
			body.Memo = string(f.Bytes)
		case 3:
			if err := expectType(f, protowire.VarintType, "TxBody"); err != nil {
				return err
			}
			body.TimeoutHeight = f.Varint
		}
		return nil
	})
	if err != nil {
		return types.TxBody{}, malformed("TxBody: %v", err)
	}
	return body, nil
}

func parseAny(b []byte) (types.Any, error) {
	var a types.Any
	err := walkFields(b, func(f field) error {
		if f.Num != 1 && f.Num != 2 {
			return nil
		}
		if err := expectType(f, protowire.BytesType, "Any"); err != nil {
			return err
		}
		if f.Num == 1 {
			a.TypeURL = string(f.Bytes)
		} else {
			a.Value = append([]byte(nil), f.Bytes...)
		}
		return nil
	})
	return a, err
}

func parseAuthInfo(b []byte) (types.AuthInfo, error) {
	var info types.AuthInfo
	err := walkFields(b, func(f field) error {
		switch f.Num {
		case 1:
			if err := expectType(f, protowire.BytesType, "AuthInfo"); err != nil {
				return err
			}
			si, err := parseSignerInfo(f.Bytes)
			if err != nil {
				return err
			}
			info.SignerInfos = append(info.SignerInfos, si)
		case 2:
			if err := expectType(f, protowire.BytesType, "AuthInfo"); err != nil {
				return err
			}
			fee, err := parseFee(f.Bytes)
			if err != nil {
				return err
			}
			info.Fee = fee
		}
		return nil
	})
	if err != nil {
		return types.AuthInfo{}, malformed("AuthInfo: %v", err)
	}
	return info, nil
}

func parseSignerInfo(b []byte) (types.SignerInfo, error) {
	var si types.SignerInfo
	err := walkFields(b, func(f field) error {
		switch f.Num {
		case 1:
			if err := expectType(f, protowire.BytesType, "SignerInfo"); err != nil {
				return err
			}
			a, err := parseAny(f.Bytes)
			if err != nil {
				return err
			}
			si.PublicKey = unwrapPublicKey(a)
		case 3:
			if err := expectType(f, protowire.VarintType, "SignerInfo"); err != nil {
				return err
			}
			si.Sequence = f.Varint
		}
		return nil
	})
	return si, err
}

// unwrapPublicKey turns known key types into their direct variants. Unknown
// type URLs and payloads that fail to decode stay wrapped so that the error
// belongs to the signer entry rather than to the whole transaction.
func unwrapPublicKey(a types.Any) types.PublicKey {
	switch a.TypeURL {
	case Secp256k1PubKeyTypeURL, Ed25519PubKeyTypeURL:
		if pk, err := singleFromAny(a); err == nil {
			return pk
		}
	case LegacyAminoPubKeyTypeURL:
		if pk, err := parseLegacyAminoPubKey(a.Value); err == nil {
			return pk
		}
	}
	return types.AnyPublicKey{TypeURL: a.TypeURL, Value: a.Value}
}

func singleFromAny(a types.Any) (types.SinglePublicKey, error) {
	key, err := parsePubKeyBytes(a.Value)
	if err != nil {
		return types.SinglePublicKey{}, err
	}
	switch a.TypeURL {
	case Secp256k1PubKeyTypeURL:
		return types.SinglePublicKey{Key: key, Curve: types.CurveSecp256k1}, nil
	case Ed25519PubKeyTypeURL:
		return types.SinglePublicKey{Key: key, Curve: types.CurveEd25519}, nil
	default:
		return types.SinglePublicKey{}, &UnrecognizedKeyTypeError{TypeURL: a.TypeURL}
	}
}

// parsePubKeyBytes reads field 1 of a secp256k1 or ed25519 PubKey message.
func parsePubKeyBytes(b []byte) ([]byte, error) {
	var key []byte
	err := walkFields(b, func(f field) error {
		if f.Num != 1 {
			return nil
		}
		if err := expectType(f, protowire.BytesType, "PubKey"); err != nil {
			return err
		}
		key = append([]byte(nil), f.Bytes...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return nil, malformed("PubKey has no key bytes")
	}
	return key, nil
}

func parseLegacyAminoPubKey(b []byte) (types.LegacyMultisigPublicKey, error) {
	var pk types.LegacyMultisigPublicKey
	err := walkFields(b, func(f field) error {
		switch f.Num {
		case 1:
			if err := expectType(f, protowire.VarintType, "LegacyAminoPubKey"); err != nil {
				return err
			}
			pk.Threshold = uint32(f.Varint)
		case 2:
			if err := expectType(f, protowire.BytesType, "LegacyAminoPubKey"); err != nil {
				return err
			}
			a, err := parseAny(f.Bytes)
			if err != nil {
				return err
			}
			member, err := singleFromAny(a)
			if err != nil {
				return err
			}
			pk.PublicKeys = append(pk.PublicKeys, member)
		}
		return nil
	})
	return pk, err
}

func parseFee(b []byte) (types.Fee, error) {
	var fee types.Fee
	err := walkFields(b, func(f field) error {
		switch f.Num {
		case 1:
			if err := expectType(f, protowire.BytesType, "Fee"); err != nil {
				return err
			}
			coin, err := parseCoin(f.Bytes)
			if err != nil {
				return err
			}
			fee.Amount = append(fee.Amount, coin)
		case 2:
			if err := expectType(f, protowire.VarintType, "Fee"); err != nil {
				return err
			}
			fee.GasLimit = f.Varint
		case 3:
			if err := expectType(f, protowire.BytesType, "Fee"); err != nil {
				return err
			}
			if len(f.Bytes) == 0 {
				return nil
			}
			payer, err := types.ParseAccountAddress(string(f.Bytes))
			if err != nil {
				return err
			}
			fee.Payer = &payer
		case 4:
			if err := expectType(f, protowire.BytesType, "Fee"); err != nil {
				return err
			}
			fee.Granter = string(f.Bytes)
		}
		return nil
	})
	return fee, err
}

func parseCoin(b []byte) (types.Coin, error) {
	var coin types.Coin
	var amount string
	err := walkFields(b, func(f field) error {
		if f.Num != 1 && f.Num != 2 {
			return nil
		}
		if err := expectType(f, protowire.BytesType, "Coin"); err != nil {
			return err
		}
		if f.Num == 1 {
			coin.Denom = string(f.Bytes)
		} else {
			amount = string(f.Bytes)
		}
		return nil
	})
	if err != nil {
		return types.Coin{}, err
	}
	if amount == "" {
		amount = "0"
	}
	coin.Amount, err = uint256.FromDecimal(amount)
	if err != nil {
		return types.Coin{}, malformed("coin amount %q: %v", amount, err)
	}
	return coin, nil
}

// parseExecuteContract returns the contract field of a MsgExecuteContract.
func parseExecuteContract(b []byte) (string, error) {
	var contract string
	err := walkFields(b, func(f field) error {
		if f.Num != 2 {
			return nil
		}
		if err := expectType(f, protowire.BytesType, "MsgExecuteContract"); err != nil {
			return err
		}
		contract = string(f.Bytes)
		return nil
	})
	if err != nil {
		return "", malformed("MsgExecuteContract: %v", err)
	}
	return contract, nil
}
