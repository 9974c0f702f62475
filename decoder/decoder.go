// Package decoder turns raw Cosmos SDK transactions and blocks, as served by a
// CometBFT node, into chain-agnostic descriptors.
//
// A Decoder performs no I/O. It holds its chain configuration and a logger
// for diagnostics and is safe for concurrent use.
package decoder

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/allora-network/cosmos-txn-decoder/types"
	"github.com/ava-labs/libevm/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

type Decoder struct {
	cfg Config
	log zerolog.Logger
}

func New(cfg Config, logger zerolog.Logger) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid decoder config: %w", err)
	}
	return &Decoder{cfg: cfg, log: logger}, nil
}

func (d *Decoder) Config() Config {
	return d.cfg
}

// DecodeTransaction verifies that resp belongs to expected and builds its
// TxnInfo.
func (d *Decoder) DecodeTransaction(resp types.TxResponse, expected common.Hash) (*types.TxnInfo, error) {
	received, err := ParseHash(resp.Hash)
	if err != nil {
		return nil, fmt.Errorf("%w: tx hash: %v", ErrMalformedResponse, err)
	}
	if received != expected {
		return nil, &HashMismatchError{Expected: expected, Received: received}
	}
	if computed := common.Hash(sha256.Sum256(resp.Tx)); computed != expected {
		return nil, &HashMismatchError{Expected: expected, Received: computed}
	}

	gasWanted, err := parseGas(resp.TxResult.GasWanted)
	if err != nil {
		return nil, fmt.Errorf("%w: gas wanted: %v", ErrMalformedResponse, err)
	}
	gasUsed, err := parseGas(resp.TxResult.GasUsed)
	if err != nil {
		return nil, fmt.Errorf("%w: gas used: %v", ErrMalformedResponse, err)
	}

	tx, err := ParseTx(resp.Tx)
	if err != nil {
		return nil, err
	}

	contract, err := d.Contract(tx, expected)
	if err != nil {
		return nil, err
	}
	sender, nonce, err := d.SenderAndNonce(tx)
	if err != nil {
		return nil, err
	}
	// TODO: convert fees paid in other denominations once price feeds are available.
	if err := d.ReportUnsupportedDenominations(tx, expected); err != nil {
		return nil, err
	}
	fee, err := d.TotalFee(tx.AuthInfo.Fee.Amount)
	if err != nil {
		return nil, err
	}

	gasPrice := d.GasPrice(fee, tx.AuthInfo.Fee.GasLimit)
	return &types.TxnInfo{
		Hash:      expected,
		GasLimit:  uint256.NewInt(gasWanted),
		GasPrice:  gasPrice,
		Nonce:     nonce,
		Sender:    sender,
		Recipient: &contract,
		Receipt: &types.TxnReceiptInfo{
			GasUsed:           uint256.NewInt(gasUsed),
			CumulativeGasUsed: uint256.NewInt(gasUsed),
			EffectiveGasPrice: gasPrice.Clone(),
		},
	}, nil
}

// GasPrice divides the total fee by the gas limit. A zero result is raised
// to one and logged.
func (d *Decoder) GasPrice(fee *uint256.Int, gasLimit uint64) *uint256.Int {
	price := new(uint256.Int).Div(fee, uint256.NewInt(gasLimit))
	if price.IsZero() {
		d.log.Warn().
			Str("fee", fee.Dec()).
			Uint64("gas_limit", gasLimit).
			Msg("calculated zero gas price")
		return uint256.NewInt(1)
	}
	return price
}

// ExtractBlockInfo verifies that resp is the block identified by expected and
// returns its hash, time and height.
func (d *Decoder) ExtractBlockInfo(resp types.BlockResult, expected common.Hash) (*types.BlockInfo, error) {
	received, err := ParseHash(resp.BlockID.Hash)
	if err != nil {
		return nil, fmt.Errorf("%w: block hash: %v", ErrMalformedResponse, err)
	}
	if received != expected {
		return nil, &HashMismatchError{Expected: expected, Received: received}
	}
	if resp.Block == nil {
		return nil, fmt.Errorf("%w for block %s", ErrEmptyBlock, expected.Hex())
	}

	height, err := strconv.ParseUint(resp.Block.Header.Height, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: block height %q: %v", ErrMalformedResponse, resp.Block.Header.Height, err)
	}
	return &types.BlockInfo{
		Hash:      expected,
		Timestamp: uint64(resp.Block.Header.Time.Unix()),
		Number:    height,
	}, nil
}

// ParseHash parses a 32-byte hash as printed by CometBFT (upper case hex,
// no prefix). A 0x prefix is accepted.
func ParseHash(s string) (common.Hash, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return common.Hash{}, err
	}
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("hash must be %d bytes, got %d", common.HashLength, len(b))
	}
	return common.BytesToHash(b), nil
}

func parseGas(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative gas %d", v)
	}
	return uint64(v), nil
}
