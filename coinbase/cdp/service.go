/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package cdp

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service is the custodial wallet surface the plugins consume. The concrete
// implementation talks to the platform REST API; tests substitute fakes.
type Service interface {
	// ResolveOrCreateWallet returns the stored wallet for the agent on the
	// given network, creating and persisting a new one when none exists.
	// Idempotent per agent identity.
	ResolveOrCreateWallet(ctx context.Context, networkID string) (*Wallet, error)

	// Balance returns the available balance of one asset.
	Balance(ctx context.Context, wallet *Wallet, assetID string) (decimal.Decimal, error)

	// ListBalances returns every asset position in the wallet.
	ListBalances(ctx context.Context, wallet *Wallet) ([]Balance, error)

	// ListTransactions returns up to limit recent wallet transactions.
	ListTransactions(ctx context.Context, wallet *Wallet, limit int) ([]Transaction, error)

	// CreateTransfer initiates an asset movement; the returned transfer may
	// still be pending and should be polled via TransferStatus.
	CreateTransfer(ctx context.Context, wallet *Wallet, req TransferRequest) (*Transfer, error)

	// TransferStatus fetches the current state of a transfer.
	TransferStatus(ctx context.Context, wallet *Wallet, transferID string) (*Transfer, error)

	// CreateTrade initiates an asset swap inside the wallet.
	CreateTrade(ctx context.Context, wallet *Wallet, req TradeRequest) (*Trade, error)

	// TradeStatus fetches the current state of a trade.
	TradeStatus(ctx context.Context, wallet *Wallet, tradeID string) (*Trade, error)

	// DeployToken deploys an ERC20 contract from the wallet.
	DeployToken(ctx context.Context, wallet *Wallet, req TokenDeployment) (*SmartContract, error)

	// DeployNFT deploys an ERC721 contract from the wallet.
	DeployNFT(ctx context.Context, wallet *Wallet, req NFTDeployment) (*SmartContract, error)

	// InvokeContract calls a state-changing contract method from the wallet.
	InvokeContract(ctx context.Context, wallet *Wallet, req ContractInvocation) (*Invocation, error)

	// ReadContract calls a view method and returns the decoded result.
	ReadContract(ctx context.Context, req ReadContractRequest) (any, error)

	// CreateWebhook registers a notification endpoint for on-chain events.
	CreateWebhook(ctx context.Context, req WebhookRequest) (*Webhook, error)

	// ListWebhooks returns all registered webhooks.
	ListWebhooks(ctx context.Context) ([]Webhook, error)
}

// CredentialStore persists generated wallet credentials between runs so the
// agent reuses one wallet per identity.
type CredentialStore interface {
	// StoredWallet returns the persisted wallet ID and seed, or empty
	// strings when no wallet has been created yet.
	StoredWallet() (id, seed string)

	// Persist stores freshly generated wallet credentials.
	Persist(id, seed string) error
}
