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

// CreateOrder places one order. A non-nil response with Success=false
// carries the vendor's rejection detail; callers must check both.
func (c *Client) CreateOrder(ctx context.Context, order CreateOrderRequest) (*CreateOrderResponse, error) {
	var out CreateOrderResponse
	if err := c.rc.Do(ctx, req(http.MethodPost, basePath+"/orders", nil, order), &out); err != nil {
		return nil, fmt.Errorf("placing %s order for %s: %w", order.Side, order.ProductID, err)
	}
	return &out, nil
}

// PreviewOrder previews an order without placing it.
func (c *Client) PreviewOrder(ctx context.Context, order CreateOrderRequest) (map[string]any, error) {
	var out map[string]any
	if err := c.rc.Do(ctx, req(http.MethodPost, basePath+"/orders/preview", nil, order), &out); err != nil {
		return nil, fmt.Errorf("previewing order: %w", err)
	}
	return out, nil
}

// CancelOrders requests cancellation of the given order IDs.
func (c *Client) CancelOrders(ctx context.Context, orderIDs []string) error {
	if err := c.rc.Do(ctx, req(http.MethodPost, basePath+"/orders/batch_cancel", nil, map[string]any{
		"order_ids": orderIDs,
	}), nil); err != nil {
		return fmt.Errorf("cancelling orders: %w", err)
	}
	return nil
}

// EditOrder changes the price or size of an open limit order.
func (c *Client) EditOrder(ctx context.Context, orderID, price, size string) error {
	if err := c.rc.Do(ctx, req(http.MethodPost, basePath+"/orders/edit", nil, map[string]string{
		"order_id": orderID,
		"price":    price,
		"size":     size,
	}), nil); err != nil {
		return fmt.Errorf("editing order %s: %w", orderID, err)
	}
	return nil
}

// GetOrder fetches one historical order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var out struct {
		Order Order `json:"order"`
	}
	if err := c.rc.Do(ctx, req(http.MethodGet, basePath+"/orders/historical/"+orderID, nil, nil), &out); err != nil {
		return nil, fmt.Errorf("fetching order %s: %w", orderID, err)
	}
	return &out.Order, nil
}

// ListOrders returns historical orders, optionally filtered by product.
func (c *Client) ListOrders(ctx context.Context, productID string, limit int) ([]Order, error) {
	var out struct {
		Orders []Order `json:"orders"`
	}
	if err := c.rc.Do(ctx, req(http.MethodGet, basePath+"/orders/historical/batch", url.Values{
		"product_id": {productID},
		"limit":      {strconv.Itoa(limit)},
	}, nil), &out); err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return out.Orders, nil
}

// ListFills returns executions, optionally filtered by order or product.
func (c *Client) ListFills(ctx context.Context, orderID, productID string) ([]Fill, error) {
	var out struct {
		Fills []Fill `json:"fills"`
	}
	if err := c.rc.Do(ctx, req(http.MethodGet, basePath+"/orders/historical/fills", url.Values{
		"order_id":   {orderID},
		"product_id": {productID},
	}, nil), &out); err != nil {
		return nil, fmt.Errorf("listing fills: %w", err)
	}
	return out.Fills, nil
}

// ClosePosition closes a futures position for the given product.
func (c *Client) ClosePosition(ctx context.Context, clientOrderID, productID, size string) (*CreateOrderResponse, error) {
	var out CreateOrderResponse
	if err := c.rc.Do(ctx, req(http.MethodPost, basePath+"/orders/close_position", nil, map[string]string{
		"client_order_id": clientOrderID,
		"product_id":      productID,
		"size":            size,
	}), &out); err != nil {
		return nil, fmt.Errorf("closing position on %s: %w", productID, err)
	}
	return &out, nil
}
