package main

import (
	"context"

	"github.com/allora-network/cosmos-txn-decoder/provider"
	"github.com/ava-labs/libevm/common"
	"github.com/rs/zerolog/log"
)

func processBlock(ctx context.Context, p *provider.Provider, chain string, hash common.Hash) error {
	block, err := p.GetBlockByHash(ctx, hash)
	BlocksDecodedTotal.WithLabelValues(chain, outcomeKind(err)).Inc()
	if err != nil {
		log.Warn().Err(err).Str("block", hash.Hex()).Msg("Failed to fetch block")
		return err
	}

	log.Info().Uint64("height", block.Number).Str("block", hash.Hex()).Msg("Fetched block")

	if dbPool == nil {
		return emit(block)
	}
	if err := insertBlockInfo(ctx, block); err != nil {
		log.Error().Err(err).Uint64("height", block.Number).Msg("Failed to insert block")
		return err
	}
	return nil
}
