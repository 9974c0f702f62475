package types

import (
	"github.com/ava-labs/libevm/common"
	"github.com/holiman/uint256"
)

// TxnInfo is the chain-agnostic description of a transaction.
type TxnInfo struct {
	Hash                 common.Hash     `json:"hash"`
	GasLimit             *uint256.Int    `json:"gas_limit"`
	MaxPriorityFeePerGas *uint256.Int    `json:"max_priority_fee_per_gas,omitempty"`
	MaxFeePerGas         *uint256.Int    `json:"max_fee_per_gas,omitempty"`
	GasPrice             *uint256.Int    `json:"gas_price,omitempty"`
	Nonce                uint64          `json:"nonce"`
	Sender               AccountAddress  `json:"sender"`
	Recipient            *AccountAddress `json:"recipient,omitempty"`
	Receipt              *TxnReceiptInfo `json:"receipt,omitempty"`
}

type TxnReceiptInfo struct {
	GasUsed           *uint256.Int `json:"gas_used"`
	CumulativeGasUsed *uint256.Int `json:"cumulative_gas_used"`
	EffectiveGasPrice *uint256.Int `json:"effective_gas_price,omitempty"`
}

type BlockInfo struct {
	Hash      common.Hash `json:"hash"`
	Timestamp uint64      `json:"timestamp"`
	Number    uint64      `json:"number"`
}
