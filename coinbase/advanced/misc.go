/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package advanced

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListPortfolios returns the account's portfolios.
func (c *Client) ListPortfolios(ctx context.Context) ([]Portfolio, error) {
	var out struct {
		Portfolios []Portfolio `json:"portfolios"`
	}
	if err := c.rc.Do(ctx, req(http.MethodGet, basePath+"/portfolios", nil, nil), &out); err != nil {
		return nil, fmt.Errorf("listing portfolios: %w", err)
	}
	return out.Portfolios, nil
}

// GetTransactionSummary returns fee tier and volume for the account.
func (c *Client) GetTransactionSummary(ctx context.Context) (*TransactionSummary, error) {
	var out TransactionSummary
	if err := c.rc.Do(ctx, req(http.MethodGet, basePath+"/transaction_summary", nil, nil), &out); err != nil {
		return nil, fmt.Errorf("fetching transaction summary: %w", err)
	}
	return &out, nil
}

// CreateConvertQuote quotes a conversion between two currency accounts.
func (c *Client) CreateConvertQuote(ctx context.Context, fromAccount, toAccount, amount string) (map[string]any, error) {
	var out map[string]any
	if err := c.rc.Do(ctx, req(http.MethodPost, basePath+"/convert/quote", nil, map[string]string{
		"from_account": fromAccount,
		"to_account":   toAccount,
		"amount":       amount,
	}), &out); err != nil {
		return nil, fmt.Errorf("creating convert quote: %w", err)
	}
	return out, nil
}

// CommitConvertTrade commits a previously quoted conversion.
func (c *Client) CommitConvertTrade(ctx context.Context, tradeID, fromAccount, toAccount string) (map[string]any, error) {
	var out map[string]any
	if err := c.rc.Do(ctx, req(http.MethodPost, basePath+"/convert/trade/"+tradeID, nil, map[string]string{
		"from_account": fromAccount,
		"to_account":   toAccount,
	}), &out); err != nil {
		return nil, fmt.Errorf("committing convert trade %s: %w", tradeID, err)
	}
	return out, nil
}

// ListPaymentMethods returns the account's payment methods.
func (c *Client) ListPaymentMethods(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.rc.Do(ctx, req(http.MethodGet, basePath+"/payment_methods", nil, nil), &out); err != nil {
		return nil, fmt.Errorf("listing payment methods: %w", err)
	}
	return out, nil
}

// GetKeyPermissions reports what the current API key may do.
func (c *Client) GetKeyPermissions(ctx context.Context) (*KeyPermissions, error) {
	var out KeyPermissions
	if err := c.rc.Do(ctx, req(http.MethodGet, basePath+"/key_permissions", nil, nil), &out); err != nil {
		return nil, fmt.Errorf("fetching key permissions: %w", err)
	}
	return &out, nil
}

// GetServerTime returns the API server time. Public endpoint.
func (c *Client) GetServerTime(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.rc.Do(ctx, pubReq(http.MethodGet, basePath+"/time", url.Values{}), &out); err != nil {
		return nil, fmt.Errorf("fetching server time: %w", err)
	}
	return out, nil
}
