/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package cdp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"chainguard.dev/coinbaseaf/coinbase/rest"
	"github.com/chainguard-dev/clog"
	"github.com/shopspring/decimal"
)

const (
	defaultHost = "api.cdp.coinbase.com"
	basePath    = "/platform/v1"
)

// httpService implements Service against the platform REST API.
type httpService struct {
	client *rest.Client
	store  CredentialStore
}

// NewService creates a Service backed by the platform REST API. The store
// persists generated wallet credentials; it may be nil when the caller
// guarantees a wallet already exists.
func NewService(client *rest.Client, store CredentialStore) Service {
	return &httpService{client: client, store: store}
}

// DefaultHost is the production platform API host.
func DefaultHost() string { return defaultHost }

func (s *httpService) ResolveOrCreateWallet(ctx context.Context, networkID string) (*Wallet, error) {
	log := clog.FromContext(ctx)

	if s.store != nil {
		if id, _ := s.store.StoredWallet(); id != "" {
			var wallet Wallet
			if err := s.client.Do(ctx, rest.Request{
				Method: http.MethodGet,
				Path:   basePath + "/wallets/" + id,
			}, &wallet); err != nil {
				return nil, fmt.Errorf("fetching stored wallet %s: %w", id, err)
			}
			return &wallet, nil
		}
	}

	var wallet Wallet
	if err := s.client.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   basePath + "/wallets",
		Body:   map[string]string{"network_id": networkID},
	}, &wallet); err != nil {
		return nil, fmt.Errorf("creating wallet on %s: %w", networkID, err)
	}

	log.With("wallet_id", wallet.ID).With("network", networkID).
		Info("Created new wallet")

	if s.store != nil {
		if err := s.store.Persist(wallet.ID, wallet.Seed); err != nil {
			// The wallet exists server-side; losing the credentials would
			// orphan it, so persistence failures are fatal.
			return nil, fmt.Errorf("persisting wallet credentials: %w", err)
		}
	}
	return &wallet, nil
}

func (s *httpService) Balance(ctx context.Context, wallet *Wallet, assetID string) (decimal.Decimal, error) {
	var out Balance
	if err := s.client.Do(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   basePath + "/wallets/" + wallet.ID + "/balances/" + url.PathEscape(assetID),
	}, &out); err != nil {
		return decimal.Zero, fmt.Errorf("fetching %s balance: %w", assetID, err)
	}
	return out.Amount, nil
}

func (s *httpService) ListBalances(ctx context.Context, wallet *Wallet) ([]Balance, error) {
	var out struct {
		Data []Balance `json:"data"`
	}
	if err := s.client.Do(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   basePath + "/wallets/" + wallet.ID + "/balances",
	}, &out); err != nil {
		return nil, fmt.Errorf("listing balances: %w", err)
	}
	return out.Data, nil
}

func (s *httpService) ListTransactions(ctx context.Context, wallet *Wallet, limit int) ([]Transaction, error) {
	var out struct {
		Data []Transaction `json:"data"`
	}
	if err := s.client.Do(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   basePath + "/wallets/" + wallet.ID + "/transactions",
		Query:  url.Values{"limit": {strconv.Itoa(limit)}},
	}, &out); err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return out.Data, nil
}

func (s *httpService) CreateTransfer(ctx context.Context, wallet *Wallet, req TransferRequest) (*Transfer, error) {
	var out Transfer
	if err := s.client.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   basePath + "/wallets/" + wallet.ID + "/transfers",
		Body:   req,
	}, &out); err != nil {
		return nil, fmt.Errorf("creating transfer: %w", err)
	}
	return &out, nil
}

func (s *httpService) TransferStatus(ctx context.Context, wallet *Wallet, transferID string) (*Transfer, error) {
	var out Transfer
	if err := s.client.Do(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   basePath + "/wallets/" + wallet.ID + "/transfers/" + transferID,
	}, &out); err != nil {
		return nil, fmt.Errorf("fetching transfer %s: %w", transferID, err)
	}
	return &out, nil
}

func (s *httpService) CreateTrade(ctx context.Context, wallet *Wallet, req TradeRequest) (*Trade, error) {
	var out Trade
	if err := s.client.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   basePath + "/wallets/" + wallet.ID + "/trades",
		Body:   req,
	}, &out); err != nil {
		return nil, fmt.Errorf("creating trade: %w", err)
	}
	return &out, nil
}

func (s *httpService) TradeStatus(ctx context.Context, wallet *Wallet, tradeID string) (*Trade, error) {
	var out Trade
	if err := s.client.Do(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   basePath + "/wallets/" + wallet.ID + "/trades/" + tradeID,
	}, &out); err != nil {
		return nil, fmt.Errorf("fetching trade %s: %w", tradeID, err)
	}
	return &out, nil
}

func (s *httpService) DeployToken(ctx context.Context, wallet *Wallet, req TokenDeployment) (*SmartContract, error) {
	var out SmartContract
	if err := s.client.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   basePath + "/wallets/" + wallet.ID + "/smart_contracts",
		Body: map[string]any{
			"type":    "erc20",
			"options": req,
		},
	}, &out); err != nil {
		return nil, fmt.Errorf("deploying token: %w", err)
	}
	return &out, nil
}

func (s *httpService) DeployNFT(ctx context.Context, wallet *Wallet, req NFTDeployment) (*SmartContract, error) {
	var out SmartContract
	if err := s.client.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   basePath + "/wallets/" + wallet.ID + "/smart_contracts",
		Body: map[string]any{
			"type":    "erc721",
			"options": req,
		},
	}, &out); err != nil {
		return nil, fmt.Errorf("deploying NFT collection: %w", err)
	}
	return &out, nil
}

func (s *httpService) InvokeContract(ctx context.Context, wallet *Wallet, req ContractInvocation) (*Invocation, error) {
	var out Invocation
	if err := s.client.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   basePath + "/wallets/" + wallet.ID + "/contract_invocations",
		Body:   req,
	}, &out); err != nil {
		return nil, fmt.Errorf("invoking %s on %s: %w", req.Method, req.ContractAddress, err)
	}
	return &out, nil
}

func (s *httpService) ReadContract(ctx context.Context, req ReadContractRequest) (any, error) {
	var out struct {
		Result any `json:"result"`
	}
	if err := s.client.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path: basePath + "/networks/" + url.PathEscape(req.NetworkID) +
			"/contracts/" + url.PathEscape(req.ContractAddress) + "/read",
		Body: req,
	}, &out); err != nil {
		return nil, fmt.Errorf("reading %s on %s: %w", req.Method, req.ContractAddress, err)
	}
	return out.Result, nil
}

func (s *httpService) CreateWebhook(ctx context.Context, req WebhookRequest) (*Webhook, error) {
	var out Webhook
	if err := s.client.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   basePath + "/webhooks",
		Body:   req,
	}, &out); err != nil {
		return nil, fmt.Errorf("creating webhook: %w", err)
	}
	return &out, nil
}

func (s *httpService) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	var out struct {
		Data []Webhook `json:"data"`
	}
	if err := s.client.Do(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   basePath + "/webhooks",
	}, &out); err != nil {
		return nil, fmt.Errorf("listing webhooks: %w", err)
	}
	return out.Data, nil
}
