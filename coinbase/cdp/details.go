/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package cdp

import (
	"context"
	"fmt"
)

// transactionHistoryLimit bounds the history surfaced to providers.
const transactionHistoryLimit = 10

// WalletDetails is the provider-facing summary of the agent's wallet.
type WalletDetails struct {
	Address      string        `json:"address"`
	Balances     []Balance     `json:"balances"`
	Transactions []Transaction `json:"transactions"`
}

// Details resolves the agent wallet and assembles its balances and recent
// transactions for context providers.
func Details(ctx context.Context, svc Service, networkID string) (*WalletDetails, error) {
	wallet, err := svc.ResolveOrCreateWallet(ctx, networkID)
	if err != nil {
		return nil, fmt.Errorf("resolving wallet: %w", err)
	}
	balances, err := svc.ListBalances(ctx, wallet)
	if err != nil {
		return nil, err
	}
	transactions, err := svc.ListTransactions(ctx, wallet, transactionHistoryLimit)
	if err != nil {
		return nil, err
	}
	return &WalletDetails{
		Address:      wallet.DefaultAddress,
		Balances:     balances,
		Transactions: transactions,
	}, nil
}
