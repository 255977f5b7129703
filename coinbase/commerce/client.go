/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package commerce is a minimal Coinbase Commerce client covering charge
// creation and lookup. Commerce authenticates with a static API key header
// rather than signed tokens.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
)

const defaultBaseURL = "https://api.commerce.coinbase.com"

// Pricing types accepted by the charges API.
const (
	PricingFixed    = "fixed_price"
	PricingNoPrice  = "no_price"
)

// Price is a fiat or crypto amount with its currency.
type Price struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// ChargeRequest creates a new payment charge.
type ChargeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PricingType string `json:"pricing_type"`
	LocalPrice  Price  `json:"local_price"`
}

// Charge is a payment charge as returned by the API.
type Charge struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PricingType string    `json:"pricing_type"`
	LocalPrice  Price     `json:"local_price"`
	HostedURL   string    `json:"hosted_url"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Client calls the Commerce API with an X-CC-Api-Key header.
type Client struct {
	hc      *http.Client
	baseURL string
	apiKey  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithBaseURL overrides the API base URL. Intended for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// NewClient creates a Commerce client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		hc:      &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateCharge creates a new payment charge and returns it with its hosted
// payment URL.
func (c *Client) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	var out struct {
		Data Charge `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/charges", req, &out); err != nil {
		return nil, fmt.Errorf("creating charge: %w", err)
	}
	return &out.Data, nil
}

// GetCharge fetches one charge by its ID or code.
func (c *Client) GetCharge(ctx context.Context, chargeID string) (*Charge, error) {
	var out struct {
		Data Charge `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/charges/"+chargeID, nil, &out); err != nil {
		return nil, fmt.Errorf("fetching charge %s: %w", chargeID, err)
	}
	return &out.Data, nil
}

// ListCharges returns all charges for the account.
func (c *Client) ListCharges(ctx context.Context) ([]Charge, error) {
	var out struct {
		Data []Charge `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/charges", nil, &out); err != nil {
		return nil, fmt.Errorf("listing charges: %w", err)
	}
	return out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	log := clog.FromContext(ctx)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CC-Api-Key", c.apiKey)

	log.With("method", method).With("path", path).Debug("Calling Commerce API")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%d %s: %s", resp.StatusCode, http.StatusText(resp.StatusCode), payload)
	}
	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
