/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package payouts

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Classification codes recorded in the Error Code column of the audit log.
const (
	CodeInvalidAddress    = "Invalid Address"
	CodeInsufficientFunds = "Insufficient Funds"
	CodeUnknownError      = "Unknown Error"
	CodeFeeMisconfigured  = "Fee Misconfigured"
	CodeFeeDisabled       = "Fee Splitting Disabled"
)

// ErrWalletUnavailable wraps wallet-resolution failures. It is the only
// error Disburse returns before producing a ledger.
var ErrWalletUnavailable = errors.New("wallet unavailable")

// InvalidAddressError marks a recipient address rejected before any network
// call.
type InvalidAddressError struct {
	Address string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid destination address %q", e.Address)
}

func (e *InvalidAddressError) Code() string { return CodeInvalidAddress }

// InsufficientFundsError marks a recipient payment skipped because the
// pre-flight balance check came up short.
type InsufficientFundsError struct {
	WalletAddress string
	AssetID       string
	Required      decimal.Decimal
	Available     decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("wallet %s holds %s %s, need %s", e.WalletAddress, e.Available, e.AssetID, e.Required)
}

func (e *InsufficientFundsError) Code() string { return CodeInsufficientFunds }

// FeeMisconfiguredError marks a fee payment that could not resolve a
// destination address even though fee splitting is enabled. Fatal to the fee
// step only, never to recipient payments.
type FeeMisconfiguredError struct {
	NetworkID string
}

func (e *FeeMisconfiguredError) Error() string {
	return fmt.Sprintf("fee splitting is enabled but no fee destination is configured for network %s", e.NetworkID)
}

func (e *FeeMisconfiguredError) Code() string { return CodeFeeMisconfigured }

type feeDisabledError struct{}

func (feeDisabledError) Error() string { return "fee splitting is disabled" }
func (feeDisabledError) Code() string  { return CodeFeeDisabled }

// ErrFeeDisabled is returned by the fee splitter when splitting is off.
var ErrFeeDisabled error = feeDisabledError{}

// Classify maps an error to its audit-log classification code. Errors that
// carry no code classify as CodeUnknownError. The same policy applies to
// recipient and fee failures alike.
func Classify(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return CodeUnknownError
}
