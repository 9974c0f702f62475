package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/allora-network/cosmos-txn-decoder/decoder"
	"github.com/allora-network/cosmos-txn-decoder/types"
	"github.com/ava-labs/libevm/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNode struct {
	blocks map[common.Hash]*types.BlockResult
	txs    map[common.Hash]*types.TxResponse
	err    error
}

func (f *fakeNode) BlockByHash(_ context.Context, hash common.Hash) (*types.BlockResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.blocks[hash]
	if !ok {
		return nil, errors.New("block not found")
	}
	return b, nil
}

func (f *fakeNode) TxByHash(_ context.Context, hash common.Hash) (*types.TxResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	tx, ok := f.txs[hash]
	if !ok {
		return nil, errors.New("tx not found")
	}
	return tx, nil
}

type fakeState struct {
	contracts map[string]bool
	balances  map[string]*uint256.Int
	denoms    []string
}

func (f *fakeState) ContractInfo(_ context.Context, address string) error {
	if !f.contracts[address] {
		return errors.New("contract not found")
	}
	return nil
}

func (f *fakeState) Balance(_ context.Context, address, denom string) (*uint256.Int, error) {
	f.denoms = append(f.denoms, denom)
	if b, ok := f.balances[address]; ok {
		return b, nil
	}
	return new(uint256.Int), nil
}

func newTestProvider(t *testing.T, node NodeClient, state ChainStateClient) *Provider {
	t.Helper()
	dec, err := decoder.New(decoder.Config{
		NativeDenom:    "uosmo",
		NativeDecimals: 6,
		Bech32Prefix:   "osmo",
	}, zerolog.Nop())
	require.NoError(t, err)
	return New(node, state, dec, zerolog.Nop())
}

func hashString(h common.Hash) string {
	return strings.ToUpper(hex.EncodeToString(h[:]))
}

func TestProvider_GetBlockByHash(t *testing.T) {
	hash := common.HexToHash("0x0102")
	block := &types.BlockResult{Block: &types.Block{}}
	block.BlockID.Hash = hashString(hash)
	block.Block.Header.Height = "77"
	block.Block.Header.Time = time.Unix(1_700_000_000, 0)

	p := newTestProvider(t, &fakeNode{blocks: map[common.Hash]*types.BlockResult{hash: block}}, &fakeState{})

	info, err := p.GetBlockByHash(context.Background(), hash)
	require.NoError(t, err)
	assert.Equal(t, &types.BlockInfo{Hash: hash, Timestamp: 1_700_000_000, Number: 77}, info)
}

func TestProvider_GetBlockByHash_WrongBlock(t *testing.T) {
	requested := common.HexToHash("0x0102")
	served := &types.BlockResult{Block: &types.Block{}}
	served.BlockID.Hash = hashString(common.HexToHash("0x0103"))
	served.Block.Header.Height = "1"

	p := newTestProvider(t, &fakeNode{blocks: map[common.Hash]*types.BlockResult{requested: served}}, &fakeState{})

	_, err := p.GetBlockByHash(context.Background(), requested)
	require.ErrorIs(t, err, decoder.ErrHashMismatch)
}

func TestProvider_GetTxnByHash(t *testing.T) {
	t.Run("node error is wrapped", func(t *testing.T) {
		nodeErr := errors.New("connection refused")
		p := newTestProvider(t, &fakeNode{err: nodeErr}, &fakeState{})

		_, err := p.GetTxnByHash(context.Background(), common.HexToHash("0x01"))
		require.ErrorIs(t, err, nodeErr)
	})

	t.Run("undecodable tx", func(t *testing.T) {
		raw := []byte{0x0a, 0x7f}
		hash := common.Hash(sha256.Sum256(raw))
		resp := &types.TxResponse{Hash: hashString(hash), Tx: raw}
		p := newTestProvider(t, &fakeNode{txs: map[common.Hash]*types.TxResponse{hash: resp}}, &fakeState{})

		_, err := p.GetTxnByHash(context.Background(), hash)
		require.ErrorIs(t, err, decoder.ErrMalformedTransactionBytes)
	})
}

func TestProvider_IsContract(t *testing.T) {
	contract := types.AccountAddress{Prefix: "osmo", Bytes: make([]byte, 32)}
	account := types.AccountAddress{Prefix: "osmo", Bytes: make([]byte, 20)}
	p := newTestProvider(t, &fakeNode{}, &fakeState{contracts: map[string]bool{contract.String(): true}})

	ok, err := p.IsContract(context.Background(), contract)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.IsContract(context.Background(), account)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProvider_GetBalance(t *testing.T) {
	state := &fakeState{balances: map[string]*uint256.Int{"osmo1abc": uint256.NewInt(42)}}
	p := newTestProvider(t, &fakeNode{}, state)

	got, err := p.GetBalance(context.Background(), "osmo1abc")
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(42), got)
	assert.Equal(t, []string{"uosmo"}, state.denoms)
}

func TestProvider_GetChainMetrics(t *testing.T) {
	p := newTestProvider(t, &fakeNode{}, &fakeState{})
	m, err := p.GetChainMetrics(context.Background())
	require.NoError(t, err)
	assert.Nil(t, m)
}
