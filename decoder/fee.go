package decoder

import (
	"github.com/allora-network/cosmos-txn-decoder/types"
	"github.com/ava-labs/libevm/common"
	"github.com/holiman/uint256"
)

// ConvertFee expresses a fee coin in atto units (10^-18) of the native token.
// Coins in any other denomination count as zero.
func (d *Decoder) ConvertFee(coin types.Coin) (*uint256.Int, error) {
	if coin.Denom != d.cfg.NativeDenom || coin.Amount == nil {
		return new(uint256.Int), nil
	}
	coefficient := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(AttoExponent-d.cfg.NativeDecimals)))
	amount, overflow := new(uint256.Int).MulOverflow(coin.Amount, coefficient)
	if overflow {
		return nil, ErrFeeOverflow
	}
	return amount, nil
}

// TotalFee sums the converted fee coins.
func (d *Decoder) TotalFee(coins []types.Coin) (*uint256.Int, error) {
	total := new(uint256.Int)
	for _, c := range coins {
		v, err := d.ConvertFee(c)
		if err != nil {
			return nil, err
		}
		if _, overflow := total.AddOverflow(total, v); overflow {
			return nil, ErrFeeOverflow
		}
	}
	return total, nil
}

// ReportUnsupportedDenominations fails when any fee coin is not in the
// denomination the chain's minimum gas price is expressed in.
func (d *Decoder) ReportUnsupportedDenominations(tx *types.RawTransaction, txHash common.Hash) error {
	supported := d.cfg.SupportedFeeDenom()
	var unsupported []string
	for _, c := range tx.AuthInfo.Fee.Amount {
		if c.Denom != supported {
			unsupported = append(unsupported, c.Denom)
		}
	}
	if len(unsupported) == 0 {
		return nil
	}

	d.log.Warn().
		Str("tx_hash", txHash.Hex()).
		Str("supported_denomination", supported).
		Strs("unsupported_denominations", unsupported).
		Msg("transaction contains fees in unsupported denominations, manual intervention is required")
	return &UnsupportedDenominationError{Supported: supported, Denoms: unsupported}
}
