/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package payouts fans one transfer request out into N recipient payments
// plus one protocol-fee payment, tracking every outcome in an ordered ledger
// and a durable CSV audit log.
//
// Recipients are processed strictly sequentially. Each iteration's balance
// check must observe the previous iteration's transfer; the wallet balance
// is shared mutable state with no reservation mechanism, so parallelizing
// the loop would allow overdraft past the last observed balance. Concurrent
// invocations against the same wallet are not coordinated and can race past
// each other's balance checks.
package payouts

import (
	"context"
	"fmt"

	"chainguard.dev/coinbaseaf/coinbase/cdp"
	"chainguard.dev/coinbaseaf/coinbase/networks"
	"github.com/chainguard-dev/clog"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Transfer outcome statuses.
const (
	StatusSuccess = "Success"
	StatusFailed  = "Failed"
)

// AuditHeader is the column layout of the disbursement audit log.
var AuditHeader = []string{"Address", "Amount", "Status", "Error Code", "Transaction URL"}

// Request is one disbursement: pay Amount of AssetID to every recipient on
// NetworkID, in order. Recipients need not be unique. Immutable once
// accepted.
type Request struct {
	NetworkID  string
	AssetID    string
	Recipients []string
	Amount     decimal.Decimal
}

// Outcome records one transfer attempt. Created once per attempt and never
// mutated. ErrorCode and Detail are set iff the attempt failed;
// TransactionURL is set iff it succeeded.
type Outcome struct {
	Address        string
	Amount         decimal.Decimal
	Status         string
	ErrorCode      string
	Detail         string
	TransactionURL string
}

// Row renders the outcome as an audit-log row matching AuditHeader.
func (o Outcome) Row() []string {
	return []string{o.Address, o.Amount.String(), o.Status, o.ErrorCode, o.TransactionURL}
}

// WalletService is the slice of the wallet service the orchestrator needs
// beyond the transfer executor.
type WalletService interface {
	ResolveOrCreateWallet(ctx context.Context, networkID string) (*cdp.Wallet, error)
	Balance(ctx context.Context, wallet *cdp.Wallet, assetID string) (decimal.Decimal, error)
}

// AuditSink persists outcome rows durably. Append failures are logged and
// swallowed; the returned ledger is the authoritative record.
type AuditSink interface {
	Append(ctx context.Context, rows ...[]string) error
}

// Orchestrator runs disbursements. Construct once and share; it holds no
// per-invocation state.
type Orchestrator struct {
	wallets  WalletService
	executor TransferExecutor
	splitter FeeSplitter
	sink     AuditSink
}

// NewOrchestrator wires an orchestrator from its collaborators.
func NewOrchestrator(wallets WalletService, executor TransferExecutor, splitter FeeSplitter, sink AuditSink) *Orchestrator {
	return &Orchestrator{wallets: wallets, executor: executor, splitter: splitter, sink: sink}
}

// Disburse pays every recipient in order, then attempts the fee payment
// exactly once, and returns a ledger with one outcome per recipient plus
// one fee outcome. Per-attempt failures are recorded, never raised; only
// wallet resolution and balance-oracle failures abort the invocation.
//
// No retries anywhere. Re-invoking the same request re-attempts all
// recipients, including previously successful ones.
func (o *Orchestrator) Disburse(ctx context.Context, req Request) ([]Outcome, error) {
	log := clog.FromContext(ctx).With("network", req.NetworkID, "asset", req.AssetID)

	wallet, err := o.wallets.ResolveOrCreateWallet(ctx, req.NetworkID)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving wallet on %s: %v", ErrWalletUnavailable, req.NetworkID, err)
	}

	ledger := make([]Outcome, 0, len(req.Recipients)+1)
	for _, addr := range req.Recipients {
		outcome, err := o.payRecipient(ctx, wallet, req, addr)
		if err != nil {
			return nil, err
		}
		ledger = append(ledger, outcome)
	}
	ledger = append(ledger, o.payFee(ctx, wallet, req))

	rows := make([][]string, 0, len(ledger))
	for _, outcome := range ledger {
		rows = append(rows, outcome.Row())
	}
	if err := o.sink.Append(ctx, rows...); err != nil {
		log.Errorf("recording disbursement outcomes: %v", err)
	}
	return ledger, nil
}

// payRecipient handles one recipient. The returned error is non-nil only
// for balance-oracle failures, which abort the whole invocation.
func (o *Orchestrator) payRecipient(ctx context.Context, wallet *cdp.Wallet, req Request, addr string) (Outcome, error) {
	if !ValidAddress(req.NetworkID, addr) {
		return failed(addr, req.Amount, &InvalidAddressError{Address: addr}), nil
	}

	available, err := o.wallets.Balance(ctx, wallet, req.AssetID)
	if err != nil {
		return Outcome{}, fmt.Errorf("querying %s balance: %w", req.AssetID, err)
	}
	if available.LessThan(req.Amount) {
		return failed(addr, req.Amount, &InsufficientFundsError{
			WalletAddress: wallet.DefaultAddress,
			AssetID:       req.AssetID,
			Required:      req.Amount,
			Available:     available,
		}), nil
	}

	res := o.executor.Execute(ctx, wallet, req.Amount, req.AssetID, addr)
	if res.Failure != nil {
		return failed(addr, req.Amount, res.Failure), nil
	}
	return Outcome{
		Address:        addr,
		Amount:         res.Confirmed.Amount,
		Status:         StatusSuccess,
		TransactionURL: res.Confirmed.TransactionLink,
	}, nil
}

// payFee attempts the protocol-fee payment. Always produces an outcome: a
// disabled or misconfigured splitter yields a Failed entry without touching
// the executor, and an executor failure is classified like any recipient
// failure. A fee failure never retroactively fails recipient payments.
func (o *Orchestrator) payFee(ctx context.Context, wallet *cdp.Wallet, req Request) Outcome {
	split, err := o.splitter.Split(req.NetworkID, req.Amount)
	if err != nil {
		return failed("", FeeAmount(req.Amount), err)
	}

	res := o.executor.Execute(ctx, wallet, split.Fee, req.AssetID, split.Address)
	if res.Failure != nil {
		return failed(split.Address, split.Fee, res.Failure)
	}
	return Outcome{
		Address:        split.Address,
		Amount:         res.Confirmed.Amount,
		Status:         StatusSuccess,
		TransactionURL: res.Confirmed.TransactionLink,
	}
}

func failed(addr string, amount decimal.Decimal, err error) Outcome {
	return Outcome{
		Address:   addr,
		Amount:    amount,
		Status:    StatusFailed,
		ErrorCode: Classify(err),
		Detail:    err.Error(),
	}
}

// ValidAddress reports whether addr is plausible for the network. EVM
// networks require a well-formed hex address; Solana addresses are only
// checked for presence.
func ValidAddress(networkID, addr string) bool {
	if addr == "" {
		return false
	}
	if networks.IsSolana(networkID) {
		return true
	}
	return ethcommon.IsHexAddress(addr)
}

// Summary partitions a ledger for caller-facing reporting.
type Summary struct {
	Succeeded []Outcome
	Failed    []Outcome
}

// Summarize splits a ledger into successful and failed outcomes.
func Summarize(ledger []Outcome) Summary {
	var s Summary
	for _, outcome := range ledger {
		if outcome.Status == StatusSuccess {
			s.Succeeded = append(s.Succeeded, outcome)
		} else {
			s.Failed = append(s.Failed, outcome)
		}
	}
	return s
}
