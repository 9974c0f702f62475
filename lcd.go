package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/holiman/uint256"
)

// LCDClient queries application state through the REST gateway of a node.
type LCDClient struct {
	baseURL string
	http    *http.Client
}

func NewLCDClient(baseURL string, timeout time.Duration) *LCDClient {
	return &LCDClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type contractInfoResponse struct {
	Address      string `json:"address"`
	ContractInfo struct {
		CodeID  string `json:"code_id"`
		Creator string `json:"creator"`
		Label   string `json:"label"`
	} `json:"contract_info"`
}

func (c *LCDClient) ContractInfo(ctx context.Context, address string) error {
	endpoint := fmt.Sprintf("%s/cosmwasm/wasm/v1/contract/%s", c.baseURL, url.PathEscape(address))
	body, err := getBody(ctx, c.http, endpoint)
	if err != nil {
		return err
	}
	var info contractInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return fmt.Errorf("failed to unmarshal contract info: %w", err)
	}
	if info.Address == "" {
		return fmt.Errorf("no contract at %s", address)
	}
	return nil
}

type balanceResponse struct {
	Balance struct {
		Denom  string `json:"denom"`
		Amount string `json:"amount"`
	} `json:"balance"`
}

func (c *LCDClient) Balance(ctx context.Context, address, denom string) (*uint256.Int, error) {
	endpoint := fmt.Sprintf("%s/cosmos/bank/v1beta1/balances/%s/by_denom?denom=%s",
		c.baseURL, url.PathEscape(address), url.QueryEscape(denom))
	body, err := getBody(ctx, c.http, endpoint)
	if err != nil {
		return nil, err
	}
	var resp balanceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal balance: %w", err)
	}
	if resp.Balance.Amount == "" {
		return new(uint256.Int), nil
	}
	amount, err := uint256.FromDecimal(resp.Balance.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid balance amount %q: %w", resp.Balance.Amount, err)
	}
	return amount, nil
}
