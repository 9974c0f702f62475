package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/allora-network/cosmos-txn-decoder/types"
	"github.com/ava-labs/libevm/common"
	"github.com/rs/zerolog/log"
)

// RPCClient talks to the CometBFT RPC of a node.
type RPCClient struct {
	baseURL string
	http    *http.Client
}

func NewRPCClient(baseURL string, timeout time.Duration) *RPCClient {
	return &RPCClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *RPCClient) TxByHash(ctx context.Context, hash common.Hash) (*types.TxResponse, error) {
	var resp types.TxResponse
	if err := c.call(ctx, "tx", hash, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *RPCClient) BlockByHash(ctx context.Context, hash common.Hash) (*types.BlockResult, error) {
	var resp types.BlockResult
	if err := c.call(ctx, "block_by_hash", hash, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *RPCClient) call(ctx context.Context, method string, hash common.Hash, out any) error {
	endpoint := fmt.Sprintf("%s/%s?hash=%s", c.baseURL, method, url.QueryEscape(hash.Hex()))
	body, fetchErr := getBody(ctx, c.http, endpoint)
	var statusErr *httpStatusError
	if fetchErr != nil && !errors.As(fetchErr, &statusErr) {
		return fetchErr
	}

	// CometBFT reports lookup failures as a JSON-RPC error with a non-200 status.
	envelope := types.RPCResponse[json.RawMessage]{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		if fetchErr != nil {
			return fetchErr
		}
		return fmt.Errorf("failed to unmarshal %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("%s rpc error %d: %s %s", method, envelope.Error.Code, envelope.Error.Message, envelope.Error.Data)
	}
	if fetchErr != nil {
		return fetchErr
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
	}
	log.Debug().Str("method", method).Str("hash", hash.Hex()).Msg("Fetched from node")
	return nil
}

func getBody(ctx context.Context, client *http.Client, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return body, &httpStatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}
