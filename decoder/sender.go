package decoder

import (
	"fmt"

	"github.com/allora-network/cosmos-txn-decoder/types"
)

// signerResult is the outcome of resolving one signer info entry.
type signerResult struct {
	Address types.AccountAddress
	Nonce   uint64
	Err     error
}

// SenderAndNonce returns the account paying for the transaction and its
// sequence. The fee payer is the sender when the transaction names one,
// otherwise the first signer is.
func (d *Decoder) SenderAndNonce(tx *types.RawTransaction) (types.AccountAddress, uint64, error) {
	signerInfos := tx.AuthInfo.SignerInfos
	if len(signerInfos) == 0 {
		return types.AccountAddress{}, 0, fmt.Errorf("%w: transaction has no signers", ErrNoSignerInfo)
	}

	var res signerResult
	if payer := tx.AuthInfo.Fee.Payer; payer != nil {
		results := make([]signerResult, len(signerInfos))
		for i, si := range signerInfos {
			results[i] = d.resolveSigner(si)
		}
		res = pickPayerResult(results, *payer)
	} else {
		res = d.resolveSigner(signerInfos[0])
	}
	if res.Err != nil {
		return types.AccountAddress{}, 0, res.Err
	}
	return res.Address, res.Nonce, nil
}

func (d *Decoder) resolveSigner(si types.SignerInfo) signerResult {
	if si.PublicKey == nil {
		return signerResult{Err: fmt.Errorf("%w: no public key for signer", ErrPublicKeyEncoding)}
	}
	key, style, err := d.NormalizePublicKey(si.PublicKey)
	if err != nil {
		return signerResult{Err: err}
	}
	addr, err := d.DeriveAddress(key, style)
	if err != nil {
		return signerResult{Err: err}
	}
	return signerResult{Address: addr, Nonce: si.Sequence}
}

// pickPayerResult returns the first successful entry whose address is the
// payer. Without one it returns the first failed entry, so a signer that
// could not be decoded reports its own error. A payer that matches no signer
// is ErrNoSignerInfo.
func pickPayerResult(results []signerResult, payer types.AccountAddress) signerResult {
	for _, r := range results {
		if r.Err == nil && r.Address.Equal(payer) {
			return r
		}
	}
	for _, r := range results {
		if r.Err != nil {
			return r
		}
	}
	return signerResult{Err: fmt.Errorf("%w: fee payer %s is not a signer", ErrNoSignerInfo, payer)}
}
