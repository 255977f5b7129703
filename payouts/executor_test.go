/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package payouts_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"chainguard.dev/coinbaseaf/coinbase/cdp"
	"chainguard.dev/coinbaseaf/payouts"
	"github.com/shopspring/decimal"
)

type fakeTransfers struct {
	createErr    error
	lastRequest  cdp.TransferRequest
	statuses     []string
	statusCalls  int
	initialState string
}

func (f *fakeTransfers) CreateTransfer(_ context.Context, _ *cdp.Wallet, req cdp.TransferRequest) (*cdp.Transfer, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.lastRequest = req
	state := f.initialState
	if state == "" {
		state = cdp.TransferStatusPending
	}
	return &cdp.Transfer{ID: "t-1", Status: state, Amount: req.Amount, Destination: req.Destination}, nil
}

func (f *fakeTransfers) TransferStatus(context.Context, *cdp.Wallet, string) (*cdp.Transfer, error) {
	status := cdp.TransferStatusPending
	if f.statusCalls < len(f.statuses) {
		status = f.statuses[f.statusCalls]
	}
	f.statusCalls++
	return &cdp.Transfer{ID: "t-1", Status: status, TransactionLink: "https://basescan.org/tx/0xabc"}, nil
}

func TestExecuteConfirmsAfterPolling(t *testing.T) {
	t.Parallel()

	svc := &fakeTransfers{statuses: []string{cdp.TransferStatusPending, cdp.TransferStatusComplete}}
	e := payouts.NewExecutor(svc, time.Millisecond, time.Second)

	res := e.Execute(context.Background(), &cdp.Wallet{ID: "w"}, decimal.NewFromInt(1), "eth", addrX)
	if res.Failure != nil {
		t.Fatalf("Execute() failure = %v", res.Failure)
	}
	if res.Confirmed == nil || res.Confirmed.Status != cdp.TransferStatusComplete {
		t.Errorf("Confirmed = %+v, want complete transfer", res.Confirmed)
	}
	if svc.statusCalls != 2 {
		t.Errorf("polled %d times, want 2", svc.statusCalls)
	}
}

func TestExecuteGaslessForStableCoin(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		asset string
		want  bool
	}{
		{"usdc", true},
		{"USDC", true},
		{"eth", false},
	} {
		svc := &fakeTransfers{initialState: cdp.TransferStatusComplete}
		e := payouts.NewExecutor(svc, time.Millisecond, time.Second)
		if res := e.Execute(context.Background(), &cdp.Wallet{}, decimal.NewFromInt(1), tc.asset, addrX); res.Failure != nil {
			t.Fatalf("Execute(%s) failure = %v", tc.asset, res.Failure)
		}
		if svc.lastRequest.Gasless != tc.want {
			t.Errorf("asset %q: gasless = %t, want %t", tc.asset, svc.lastRequest.Gasless, tc.want)
		}
	}
}

func TestExecuteReportsFailedTransfer(t *testing.T) {
	t.Parallel()

	svc := &fakeTransfers{statuses: []string{cdp.TransferStatusFailed}}
	e := payouts.NewExecutor(svc, time.Millisecond, time.Second)

	res := e.Execute(context.Background(), &cdp.Wallet{}, decimal.NewFromInt(1), "eth", addrX)
	if res.Failure == nil {
		t.Fatal("Execute() succeeded, want failure for failed transfer")
	}
	if res.Confirmed != nil {
		t.Errorf("Confirmed = %+v, want nil alongside failure", res.Confirmed)
	}
}

func TestExecuteTimesOut(t *testing.T) {
	t.Parallel()

	// The fake never leaves pending.
	svc := &fakeTransfers{}
	e := payouts.NewExecutor(svc, time.Millisecond, 10*time.Millisecond)

	res := e.Execute(context.Background(), &cdp.Wallet{}, decimal.NewFromInt(1), "eth", addrX)
	if res.Failure == nil || !strings.Contains(res.Failure.Error(), "unconfirmed") {
		t.Errorf("Execute() failure = %v, want confirmation timeout", res.Failure)
	}
}

func TestExecuteInitiationError(t *testing.T) {
	t.Parallel()

	svc := &fakeTransfers{createErr: errors.New("insufficient gas")}
	e := payouts.NewExecutor(svc, time.Millisecond, time.Second)

	res := e.Execute(context.Background(), &cdp.Wallet{}, decimal.NewFromInt(1), "eth", addrX)
	if res.Failure == nil {
		t.Fatal("Execute() succeeded, want initiation failure")
	}
}

func TestExecuteHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := payouts.NewExecutor(&fakeTransfers{}, time.Hour, time.Hour)
	res := e.Execute(ctx, &cdp.Wallet{}, decimal.NewFromInt(1), "eth", addrX)
	if !errors.Is(res.Failure, context.Canceled) {
		t.Errorf("Execute() failure = %v, want context.Canceled", res.Failure)
	}
}
