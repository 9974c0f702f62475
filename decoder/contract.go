package decoder

import (
	"fmt"

	"github.com/allora-network/cosmos-txn-decoder/types"
	"github.com/ava-labs/libevm/common"
)

// Contract returns the address of the contract the transaction executes.
// Exactly one MsgExecuteContract must be present.
func (d *Decoder) Contract(tx *types.RawTransaction, txHash common.Hash) (types.AccountAddress, error) {
	var executions []types.Any
	for _, msg := range tx.Body.Messages {
		if msg.TypeURL == ExecuteContractTypeURL {
			executions = append(executions, msg)
		}
	}

	switch len(executions) {
	case 0:
		d.log.Warn().Str("tx_hash", txHash.Hex()).Msg("could not find contract execution message")
		return types.AccountAddress{}, fmt.Errorf("%w in tx %s", ErrNoContractMessage, txHash.Hex())
	case 1:
	default:
		contracts := make([]string, 0, len(executions))
		for _, msg := range executions {
			contract, err := parseExecuteContract(msg.Value)
			if err != nil {
				contract = "<malformed>"
			}
			contracts = append(contracts, contract)
		}
		d.log.Warn().
			Str("tx_hash", txHash.Hex()).
			Strs("contracts", contracts).
			Msg("transaction contains multiple contract execution messages, refusing to pick one")
		return types.AccountAddress{}, &MultipleContractMessagesError{Count: len(executions)}
	}

	contract, err := parseExecuteContract(executions[0].Value)
	if err != nil {
		return types.AccountAddress{}, err
	}
	addr, err := types.ParseAccountAddress(contract)
	if err != nil {
		return types.AccountAddress{}, fmt.Errorf("%w: contract address: %v", ErrAddressDerivation, err)
	}
	return addr, nil
}
