/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package advanced_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chainguard.dev/coinbaseaf/coinbase/advanced"
	"chainguard.dev/coinbaseaf/coinbase/auth"
	"chainguard.dev/coinbaseaf/coinbase/rest"
)

func testClient(t *testing.T, handler http.Handler) *advanced.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshaling key: %v", err)
	}
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
	signer, err := auth.NewSigner("organizations/abc/apiKeys/def", string(pemKey))
	if err != nil {
		t.Fatalf("NewSigner() = %v", err)
	}
	return advanced.NewClient(signer, rest.WithBaseURL(srv.URL))
}

func TestCreateOrderMarketBuy(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v3/brokerage/orders" {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); !strings.HasPrefix(auth, "Bearer ") {
			t.Errorf("Authorization = %q, wanted bearer token", auth)
		}
		var order advanced.CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			t.Fatalf("decoding order: %v", err)
		}
		if order.Side != advanced.SideBuy {
			t.Errorf("side = %q", order.Side)
		}
		if order.ClientOrderID == "" {
			t.Error("client_order_id empty")
		}
		// Market BUY sizes in quote currency only.
		m := order.OrderConfiguration.MarketMarketIOC
		if m == nil || m.QuoteSize != "100" || m.BaseSize != "" {
			t.Errorf("market_market_ioc = %+v", m)
		}
		w.Write([]byte(`{"success": true, "success_response": {"order_id": "order-1", "product_id": "BTC-USD", "side": "BUY"}}`))
	}))

	resp, err := c.CreateOrder(context.Background(), advanced.CreateOrderRequest{
		ClientOrderID: "11111111-2222-3333-4444-555555555555",
		ProductID:     "BTC-USD",
		Side:          advanced.SideBuy,
		OrderConfiguration: advanced.OrderConfiguration{
			MarketMarketIOC: &advanced.MarketMarketIOC{QuoteSize: "100"},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder() = %v", err)
	}
	if !resp.Success || resp.SuccessResponse.OrderID != "order-1" {
		t.Errorf("response = %+v", resp)
	}
}

func TestCreateOrderRejection(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success": false, "error_response": {"error": "INSUFFICIENT_FUND", "message": "Insufficient balance in source account"}}`))
	}))

	resp, err := c.CreateOrder(context.Background(), advanced.CreateOrderRequest{
		ClientOrderID: "id",
		ProductID:     "BTC-USD",
		Side:          advanced.SideSell,
		OrderConfiguration: advanced.OrderConfiguration{
			MarketMarketIOC: &advanced.MarketMarketIOC{BaseSize: "1"},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder() = %v", err)
	}
	if resp.Success {
		t.Error("Success = true, want false")
	}
	if resp.ErrorResponse.Error != "INSUFFICIENT_FUND" {
		t.Errorf("error = %q", resp.ErrorResponse.Error)
	}
}

func TestListProductsPublic(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/brokerage/market/products" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("public endpoint sent Authorization header")
		}
		w.Write([]byte(`{"products": [{"product_id": "BTC-USD", "price": "50000"}]}`))
	}))

	products, err := c.ListProducts(context.Background(), 10, true)
	if err != nil {
		t.Fatalf("ListProducts() = %v", err)
	}
	if len(products) != 1 || products[0].ProductID != "BTC-USD" {
		t.Errorf("products = %+v", products)
	}
}

func TestListAccountsPagination(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "250" {
			t.Errorf("limit = %q", got)
		}
		w.Write([]byte(`{"accounts": [{"uuid": "a", "currency": "USD", "available_balance": {"value": "120", "currency": "USD"}}], "cursor": "next", "has_next": true}`))
	}))

	accounts, cursor, err := c.ListAccounts(context.Background(), 250, "")
	if err != nil {
		t.Fatalf("ListAccounts() = %v", err)
	}
	if len(accounts) != 1 || accounts[0].Currency != "USD" {
		t.Errorf("accounts = %+v", accounts)
	}
	if cursor != "next" {
		t.Errorf("cursor = %q, want next", cursor)
	}
}
