/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package auth builds the short-lived ES256 bearer tokens the Coinbase APIs
// require, one per request, bound to the method and path being called.
package auth

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenLifetime matches the two-minute expiry the vendor SDKs use.
const tokenLifetime = 2 * time.Minute

// Signer signs request-scoped JWTs with an API key's EC private key.
type Signer struct {
	keyName string
	key     *ecdsa.PrivateKey

	// now is swappable for tests.
	now func() time.Time
}

// NewSigner parses the PEM-encoded EC private key issued with the named API
// key and returns a Signer for it.
func NewSigner(keyName, privateKeyPEM string) (*Signer, error) {
	if keyName == "" {
		return nil, fmt.Errorf("api key name is required")
	}
	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parsing EC private key: %w", err)
	}
	return &Signer{
		keyName: keyName,
		key:     key,
		now:     time.Now,
	}, nil
}

// Bearer returns a signed token for one request. The uri claim binds the
// token to "METHOD host/path" so it cannot be replayed elsewhere.
func (s *Signer) Bearer(method, host, path string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": "cdp",
		"nbf": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
		"sub": s.keyName,
		"uri": fmt.Sprintf("%s %s%s", method, host, path),
	})
	token.Header["kid"] = s.keyName

	nonce, err := randomNonce()
	if err != nil {
		return "", err
	}
	token.Header["nonce"] = nonce

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// randomNonce returns 16 random bytes hex-encoded.
func randomNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
