package main

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/allora-network/cosmos-txn-decoder/provider"
	"github.com/ava-labs/libevm/common"
	"github.com/rs/zerolog/log"
)

var stdoutMu sync.Mutex

// emit writes one JSON document per line to stdout.
func emit(v any) error {
	stdoutMu.Lock()
	defer stdoutMu.Unlock()
	return json.NewEncoder(os.Stdout).Encode(v)
}

func processTx(ctx context.Context, p *provider.Provider, chain string, hash common.Hash) error {
	txn, err := p.GetTxnByHash(ctx, hash)
	kind := outcomeKind(err)
	TxnsDecodedTotal.WithLabelValues(chain, kind).Inc()

	if err != nil {
		log.Warn().Err(err).Str("tx", hash.Hex()).Str("kind", kind).Msg("Failed to decode transaction")
		if dbPool != nil {
			if dbErr := insertDecodeFailure(ctx, hash.Hex(), kind, err); dbErr != nil {
				log.Error().Err(dbErr).Str("tx", hash.Hex()).Msg("Failed to insert decode failure")
			}
		}
		return err
	}

	log.Info().
		Str("tx", hash.Hex()).
		Str("sender", txn.Sender.String()).
		Uint64("nonce", txn.Nonce).
		Str("gas_price", txn.GasPrice.Dec()).
		Msg("Decoded transaction")

	if txn.Recipient != nil {
		isContract, err := p.IsContract(ctx, *txn.Recipient)
		log.Debug().Err(err).Str("recipient", txn.Recipient.String()).Bool("is_contract", isContract).Msg("Recipient lookup")
	}

	if dbPool == nil {
		return emit(txn)
	}
	if err := insertTxnInfo(ctx, txn); err != nil {
		log.Error().Err(err).Str("tx", hash.Hex()).Msg("Failed to insert transaction")
		return err
	}
	return nil
}
