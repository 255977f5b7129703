/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package payouts

import "github.com/shopspring/decimal"

// feeRate is exactly one percent. Fee amounts are computed by exact decimal
// multiplication with no rounding, so a request of 123.45 yields a fee of
// 1.2345.
var feeRate = decimal.RequireFromString("0.01")

// FeeAmount returns the protocol fee for the given per-recipient amount.
func FeeAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(feeRate)
}

// FeeSplit is a resolved fee payment: where to send it and how much.
type FeeSplit struct {
	Address string
	Fee     decimal.Decimal
}

// FeeSplitter resolves fee payments per network. Addresses maps network
// identifiers to fee destinations, assembled from FEE_ADDRESS_<NETWORK>
// configuration.
type FeeSplitter struct {
	Enabled   bool
	Addresses map[string]string
}

// Split resolves the fee payment for one disbursement. It returns
// ErrFeeDisabled when splitting is off and a FeeMisconfiguredError when
// splitting is on but no destination is configured for the network.
func (s FeeSplitter) Split(networkID string, amount decimal.Decimal) (*FeeSplit, error) {
	if !s.Enabled {
		return nil, ErrFeeDisabled
	}
	addr := s.Addresses[networkID]
	if addr == "" {
		return nil, &FeeMisconfiguredError{NetworkID: networkID}
	}
	return &FeeSplit{Address: addr, Fee: FeeAmount(amount)}, nil
}
