/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package rest is the shared HTTP layer under the Coinbase API clients:
// JSON request/response handling, query construction, per-request bearer
// tokens, and a typed error carrying the vendor's status and body.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chainguard.dev/coinbaseaf/coinbase/auth"
	"github.com/chainguard-dev/clog"
)

// Error is a non-2xx response from the vendor API.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.StatusCode == http.StatusForbidden && strings.Contains(e.Body, `"error_details":"Missing required scopes"`) {
		return fmt.Sprintf("%d Forbidden: the API key is missing required scopes for this endpoint", e.StatusCode)
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Client issues authenticated JSON requests against one API host.
type Client struct {
	hc      *http.Client
	host    string
	baseURL string
	signer  *auth.Signer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithBaseURL overrides the request base URL while keeping the logical host
// used in token signing. Intended for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// NewClient creates a client for the given host. The signer may be nil for
// clients that only call public endpoints.
func NewClient(host string, signer *auth.Signer, opts ...Option) *Client {
	c := &Client{
		hc:      &http.Client{Timeout: 30 * time.Second},
		host:    host,
		baseURL: "https://" + host,
		signer:  signer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Public skips bearer-token authentication.
	Public bool
}

// Do issues the request and decodes the JSON response into out when out is
// non-nil. Non-2xx responses are returned as *Error.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	log := clog.FromContext(ctx)

	target := c.baseURL + req.Path
	if query := filterQuery(req.Query).Encode(); query != "" {
		target += "?" + query
	}

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if !req.Public {
		if c.signer == nil {
			return fmt.Errorf("no signer configured for authenticated endpoint %s", req.Path)
		}
		bearer, err := c.signer.Bearer(req.Method, c.host, req.Path)
		if err != nil {
			return fmt.Errorf("signing request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}

	log.With("method", req.Method).With("path", req.Path).Debug("Calling vendor API")

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{StatusCode: resp.StatusCode, Body: string(payload)}
	}

	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// filterQuery drops empty values so optional parameters are omitted rather
// than sent blank.
func filterQuery(q url.Values) url.Values {
	if q == nil {
		return nil
	}
	filtered := url.Values{}
	for key, values := range q {
		for _, v := range values {
			if v != "" {
				filtered.Add(key, v)
			}
		}
	}
	return filtered
}
