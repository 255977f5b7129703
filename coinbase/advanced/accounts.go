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
	"strconv"
)

// ListAccounts returns up to limit brokerage accounts starting at cursor.
func (c *Client) ListAccounts(ctx context.Context, limit int, cursor string) ([]Account, string, error) {
	var out struct {
		Accounts []Account `json:"accounts"`
		Cursor   string    `json:"cursor"`
		HasNext  bool      `json:"has_next"`
	}
	if err := c.rc.Do(ctx, req(http.MethodGet, basePath+"/accounts", url.Values{
		"limit":  {strconv.Itoa(limit)},
		"cursor": {cursor},
	}, nil), &out); err != nil {
		return nil, "", fmt.Errorf("listing accounts: %w", err)
	}
	if !out.HasNext {
		out.Cursor = ""
	}
	return out.Accounts, out.Cursor, nil
}

// GetAccount fetches one account by UUID.
func (c *Client) GetAccount(ctx context.Context, accountUUID string) (*Account, error) {
	var out struct {
		Account Account `json:"account"`
	}
	if err := c.rc.Do(ctx, req(http.MethodGet, basePath+"/accounts/"+accountUUID, nil, nil), &out); err != nil {
		return nil, fmt.Errorf("fetching account %s: %w", accountUUID, err)
	}
	return &out.Account, nil
}
