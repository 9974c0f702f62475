// Package provider looks up blocks and transactions on a Cosmos chain by hash
// and answers account queries, on top of a node client and a chain-state
// client supplied by the caller.
package provider

import (
	"context"
	"fmt"

	"github.com/allora-network/cosmos-txn-decoder/decoder"
	"github.com/allora-network/cosmos-txn-decoder/types"
	"github.com/ava-labs/libevm/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

// NodeClient fetches raw data from a CometBFT node.
type NodeClient interface {
	BlockByHash(ctx context.Context, hash common.Hash) (*types.BlockResult, error)
	TxByHash(ctx context.Context, hash common.Hash) (*types.TxResponse, error)
}

// ChainStateClient queries application state.
type ChainStateClient interface {
	// ContractInfo fails when no contract exists at address.
	ContractInfo(ctx context.Context, address string) error
	Balance(ctx context.Context, address, denom string) (*uint256.Int, error)
}

type Provider struct {
	node    NodeClient
	state   ChainStateClient
	decoder *decoder.Decoder
	log     zerolog.Logger
}

func New(node NodeClient, state ChainStateClient, dec *decoder.Decoder, logger zerolog.Logger) *Provider {
	return &Provider{
		node:    node,
		state:   state,
		decoder: dec,
		log:     logger,
	}
}

func (p *Provider) GetBlockByHash(ctx context.Context, hash common.Hash) (*types.BlockInfo, error) {
	resp, err := p.node.BlockByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("fetch block %s: %w", hash.Hex(), err)
	}
	return p.decoder.ExtractBlockInfo(*resp, hash)
}

func (p *Provider) GetTxnByHash(ctx context.Context, hash common.Hash) (*types.TxnInfo, error) {
	resp, err := p.node.TxByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("fetch tx %s: %w", hash.Hex(), err)
	}
	return p.decoder.DecodeTransaction(*resp, hash)
}

// IsContract reports whether a contract lives at address. Any chain-state
// error counts as "no contract".
func (p *Provider) IsContract(ctx context.Context, address types.AccountAddress) (bool, error) {
	if err := p.state.ContractInfo(ctx, address.String()); err != nil {
		p.log.Debug().Err(err).Str("address", address.String()).Msg("contract info query failed")
		return false, nil
	}
	return true, nil
}

// GetBalance returns the balance of address in the native denomination.
func (p *Provider) GetBalance(ctx context.Context, address string) (*uint256.Int, error) {
	return p.state.Balance(ctx, address, p.decoder.Config().NativeDenom)
}

// ChainMetrics is intentionally empty: no chain-level gauges are reported for
// Cosmos chains, so GetChainMetrics always returns nil.
type ChainMetrics struct{}

func (p *Provider) GetChainMetrics(context.Context) (*ChainMetrics, error) {
	return nil, nil
}
