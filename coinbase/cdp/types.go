/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package cdp

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Wallet is a custodial wallet handle on one network.
type Wallet struct {
	ID             string `json:"id"`
	NetworkID      string `json:"network_id"`
	DefaultAddress string `json:"default_address"`
	// Seed is only populated on wallet creation and must be persisted by
	// the caller; the service does not return it again.
	Seed string `json:"seed,omitempty"`
}

// Balance is one asset position in a wallet.
type Balance struct {
	AssetID string          `json:"asset_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// Transfer statuses reported by the wallet service.
const (
	TransferStatusPending  = "pending"
	TransferStatusComplete = "complete"
	TransferStatusFailed   = "failed"
)

// TransferRequest initiates one asset movement out of a wallet.
type TransferRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	AssetID     string          `json:"asset_id"`
	Destination string          `json:"destination"`
	Gasless     bool            `json:"gasless"`
}

// Transfer is the service's record of one asset movement.
type Transfer struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	Amount          decimal.Decimal `json:"amount"`
	AssetID         string          `json:"asset_id"`
	Destination     string          `json:"destination"`
	TransactionLink string          `json:"transaction_link"`
}

// TradeRequest swaps one asset for another inside a wallet.
type TradeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	FromAssetID string          `json:"from_asset_id"`
	ToAssetID   string          `json:"to_asset_id"`
}

// Trade is the service's record of one swap.
type Trade struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	FromAmount      decimal.Decimal `json:"from_amount"`
	FromAssetID     string          `json:"from_asset_id"`
	ToAmount        decimal.Decimal `json:"to_amount"`
	ToAssetID       string          `json:"to_asset_id"`
	TransactionLink string          `json:"transaction_link"`
}

// Transaction is one historical wallet transaction, used by providers to
// surface recent activity.
type Transaction struct {
	Status          string `json:"status"`
	TransactionHash string `json:"transaction_hash"`
	TransactionLink string `json:"transaction_link"`
}

// TokenDeployment deploys an ERC20 token contract.
type TokenDeployment struct {
	Name        string          `json:"name"`
	Symbol      string          `json:"symbol"`
	TotalSupply decimal.Decimal `json:"total_supply"`
}

// NFTDeployment deploys an ERC721 collection contract.
type NFTDeployment struct {
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	BaseURI string `json:"base_uri"`
}

// SmartContract is a deployed contract handle.
type SmartContract struct {
	ContractAddress string `json:"contract_address"`
	TransactionLink string `json:"transaction_link"`
	Status          string `json:"status"`
}

// ContractInvocation calls a state-changing method on a deployed contract.
type ContractInvocation struct {
	ContractAddress string          `json:"contract_address"`
	Method          string          `json:"method"`
	ABI             json.RawMessage `json:"abi"`
	Args            map[string]any  `json:"args,omitempty"`
	Amount          decimal.Decimal `json:"amount,omitempty"`
	AssetID         string          `json:"asset_id,omitempty"`
}

// Invocation is the service's record of one contract call.
type Invocation struct {
	Status          string `json:"status"`
	TransactionLink string `json:"transaction_link"`
}

// ReadContractRequest calls a view method on a contract without a wallet.
type ReadContractRequest struct {
	NetworkID       string          `json:"network_id"`
	ContractAddress string          `json:"contract_address"`
	Method          string          `json:"method"`
	ABI             json.RawMessage `json:"abi"`
	Args            map[string]any  `json:"args,omitempty"`
}

// Webhook event types accepted by the wallet service.
const (
	WebhookEventUnspecified    = "unspecified"
	WebhookEventERC20Transfer  = "erc20_transfer"
	WebhookEventERC721Transfer = "erc721_transfer"
	WebhookEventWalletActivity = "wallet_activity"
)

// WebhookRequest registers a notification endpoint for on-chain events.
type WebhookRequest struct {
	NetworkID       string            `json:"network_id"`
	EventType       string            `json:"event_type"`
	EventFilters    []WebhookFilter   `json:"event_filters,omitempty"`
	EventTypeFilter map[string]any    `json:"event_type_filter,omitempty"`
	NotificationURI string            `json:"notification_uri"`
	Labels          map[string]string `json:"labels,omitempty"`
}

// WebhookFilter narrows webhook delivery to specific contracts or addresses.
type WebhookFilter struct {
	ContractAddress string `json:"contract_address,omitempty"`
	FromAddress     string `json:"from_address,omitempty"`
	ToAddress       string `json:"to_address,omitempty"`
}

// Webhook is a registered notification endpoint.
type Webhook struct {
	ID              string          `json:"id"`
	NetworkID       string          `json:"network_id"`
	EventType       string          `json:"event_type"`
	EventFilters    []WebhookFilter `json:"event_filters,omitempty"`
	NotificationURI string          `json:"notification_uri"`
}
