/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package advanced is a client for the Advanced Trade (brokerage) API. Methods
map one-to-one onto vendor endpoints; order placement and the account-level
reads used by the advanced-trade plugin are authenticated, while product
market data is also available unauthenticated under the public paths.
*/
package advanced

import (
	"net/url"

	"chainguard.dev/coinbaseaf/coinbase/auth"
	"chainguard.dev/coinbaseaf/coinbase/rest"
)

const (
	// Host is the brokerage API host.
	Host = "api.coinbase.com"

	basePath   = "/api/v3/brokerage"
	publicPath = basePath + "/market"
)

// Client calls the Advanced Trade API.
type Client struct {
	rc *rest.Client
}

// NewClient creates a client using the given signer for authenticated
// endpoints.
func NewClient(signer *auth.Signer, opts ...rest.Option) *Client {
	return &Client{rc: rest.NewClient(Host, signer, opts...)}
}

// req builds an authenticated request.
func req(method, path string, query url.Values, body any) rest.Request {
	return rest.Request{Method: method, Path: path, Query: query, Body: body}
}

// pubReq builds an unauthenticated market-data request.
func pubReq(method, path string, query url.Values) rest.Request {
	return rest.Request{Method: method, Path: path, Query: query, Public: true}
}
