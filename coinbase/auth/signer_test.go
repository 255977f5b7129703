/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testKeyPEM(t *testing.T) (string, *ecdsa.PublicKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshaling key: %v", err)
	}
	block := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
	return string(block), &key.PublicKey
}

func TestBearerClaims(t *testing.T) {
	t.Parallel()

	pemKey, pub := testKeyPEM(t)
	s, err := NewSigner("organizations/abc/apiKeys/def", pemKey)
	if err != nil {
		t.Fatalf("NewSigner() = %v", err)
	}
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }

	signed, err := s.Bearer("GET", "api.coinbase.com", "/api/v3/brokerage/accounts")
	if err != nil {
		t.Fatalf("Bearer() = %v", err)
	}

	token, err := jwt.Parse(signed, func(*jwt.Token) (any, error) {
		return pub, nil
	}, jwt.WithValidMethods([]string{"ES256"}), jwt.WithTimeFunc(func() time.Time { return issued }))
	if err != nil {
		t.Fatalf("parsing token: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims type = %T", token.Claims)
	}
	if got := claims["iss"]; got != "cdp" {
		t.Errorf("iss = %v, want cdp", got)
	}
	if got := claims["sub"]; got != "organizations/abc/apiKeys/def" {
		t.Errorf("sub = %v", got)
	}
	if got := claims["uri"]; got != "GET api.coinbase.com/api/v3/brokerage/accounts" {
		t.Errorf("uri = %v", got)
	}
	if got := int64(claims["exp"].(float64)) - int64(claims["nbf"].(float64)); got != 120 {
		t.Errorf("token lifetime = %ds, want 120s", got)
	}
	if got := token.Header["kid"]; got != "organizations/abc/apiKeys/def" {
		t.Errorf("kid = %v", got)
	}
	nonce, ok := token.Header["nonce"].(string)
	if !ok || len(nonce) != 32 {
		t.Errorf("nonce = %v, want 32 hex chars", token.Header["nonce"])
	}
}

func TestNewSignerRejectsBadKey(t *testing.T) {
	t.Parallel()

	if _, err := NewSigner("key", "not a pem"); err == nil {
		t.Error("NewSigner() = nil, wanted parse error")
	}
	pemKey, _ := testKeyPEM(t)
	if _, err := NewSigner("", pemKey); err == nil {
		t.Error("NewSigner() with empty key name = nil, wanted error")
	}
}
