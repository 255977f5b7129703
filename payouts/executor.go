/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package payouts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chainguard.dev/coinbaseaf/coinbase/cdp"
	"github.com/chainguard-dev/clog"
	"github.com/shopspring/decimal"
)

// GaslessAsset is the stable coin that the wallet service moves without a
// gas fee. Matched case-insensitively.
const GaslessAsset = "usdc"

// TransferService is the slice of the wallet service the executor needs.
type TransferService interface {
	CreateTransfer(ctx context.Context, wallet *cdp.Wallet, req cdp.TransferRequest) (*cdp.Transfer, error)
	TransferStatus(ctx context.Context, wallet *cdp.Wallet, transferID string) (*cdp.Transfer, error)
}

// Result is the outcome of one transfer attempt. Exactly one field is set:
// Confirmed on success, Failure otherwise. There is no "missing" state.
type Result struct {
	Confirmed *cdp.Transfer
	Failure   error
}

// TransferExecutor performs one asset transfer with a bounded confirmation
// wait. The orchestrator depends on this interface; tests substitute fakes.
type TransferExecutor interface {
	Execute(ctx context.Context, wallet *cdp.Wallet, amount decimal.Decimal, assetID, destination string) Result
}

// Executor moves assets through the wallet service, polling until the
// transfer confirms, fails, or the wait times out.
type Executor struct {
	svc     TransferService
	poll    time.Duration
	timeout time.Duration
}

// NewExecutor returns an executor polling at the given interval with the
// given confirmation timeout.
func NewExecutor(svc TransferService, poll, timeout time.Duration) *Executor {
	return &Executor{svc: svc, poll: poll, timeout: timeout}
}

// Execute initiates one transfer and waits for confirmation. Gasless mode is
// selected automatically when the asset is the designated stable coin.
func (e *Executor) Execute(ctx context.Context, wallet *cdp.Wallet, amount decimal.Decimal, assetID, destination string) Result {
	log := clog.FromContext(ctx).With("destination", destination, "asset", assetID)

	transfer, err := e.svc.CreateTransfer(ctx, wallet, cdp.TransferRequest{
		Amount:      amount,
		AssetID:     assetID,
		Destination: destination,
		Gasless:     strings.EqualFold(assetID, GaslessAsset),
	})
	if err != nil {
		return Result{Failure: fmt.Errorf("initiating transfer: %w", err)}
	}

	deadline := time.NewTimer(e.timeout)
	defer deadline.Stop()
	tick := time.NewTicker(e.poll)
	defer tick.Stop()

	for {
		switch transfer.Status {
		case cdp.TransferStatusComplete:
			log.With("transfer", transfer.ID).Infof("transfer confirmed")
			return Result{Confirmed: transfer}
		case cdp.TransferStatusFailed:
			return Result{Failure: fmt.Errorf("transfer %s reported failed by the wallet service", transfer.ID)}
		}

		select {
		case <-ctx.Done():
			return Result{Failure: ctx.Err()}
		case <-deadline.C:
			return Result{Failure: fmt.Errorf("transfer %s unconfirmed after %s", transfer.ID, e.timeout)}
		case <-tick.C:
			updated, err := e.svc.TransferStatus(ctx, wallet, transfer.ID)
			if err != nil {
				return Result{Failure: fmt.Errorf("polling transfer %s: %w", transfer.ID, err)}
			}
			transfer = updated
		}
	}
}
