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

// ListProducts returns tradable products. Set public to use the
// unauthenticated market-data endpoint.
func (c *Client) ListProducts(ctx context.Context, limit int, public bool) ([]Product, error) {
	var out struct {
		Products []Product `json:"products"`
	}
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	r := req(http.MethodGet, basePath+"/products", query, nil)
	if public {
		r = pubReq(http.MethodGet, publicPath+"/products", query)
	}
	if err := c.rc.Do(ctx, r, &out); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return out.Products, nil
}

// GetProduct fetches one product.
func (c *Client) GetProduct(ctx context.Context, productID string, public bool) (*Product, error) {
	var out Product
	r := req(http.MethodGet, basePath+"/products/"+productID, nil, nil)
	if public {
		r = pubReq(http.MethodGet, publicPath+"/products/"+productID, nil)
	}
	if err := c.rc.Do(ctx, r, &out); err != nil {
		return nil, fmt.Errorf("fetching product %s: %w", productID, err)
	}
	return &out, nil
}

// GetCandles returns OHLCV buckets for a product between start and end unix
// timestamps at the given granularity.
func (c *Client) GetCandles(ctx context.Context, productID, start, end, granularity string, public bool) ([]Candle, error) {
	var out struct {
		Candles []Candle `json:"candles"`
	}
	query := url.Values{
		"start":       {start},
		"end":         {end},
		"granularity": {granularity},
	}
	r := req(http.MethodGet, basePath+"/products/"+productID+"/candles", query, nil)
	if public {
		r = pubReq(http.MethodGet, publicPath+"/products/"+productID+"/candles", query)
	}
	if err := c.rc.Do(ctx, r, &out); err != nil {
		return nil, fmt.Errorf("fetching candles for %s: %w", productID, err)
	}
	return out.Candles, nil
}

// GetMarketTrades returns recent trades for a product.
func (c *Client) GetMarketTrades(ctx context.Context, productID string, limit int, public bool) (map[string]any, error) {
	var out map[string]any
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	r := req(http.MethodGet, basePath+"/products/"+productID+"/ticker", query, nil)
	if public {
		r = pubReq(http.MethodGet, publicPath+"/products/"+productID+"/ticker", query)
	}
	if err := c.rc.Do(ctx, r, &out); err != nil {
		return nil, fmt.Errorf("fetching trades for %s: %w", productID, err)
	}
	return out, nil
}
