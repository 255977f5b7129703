/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package auditlog_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chainguard.dev/coinbaseaf/auditlog"
	"github.com/google/go-cmp/cmp"
)

var transactionHeader = []string{"Address", "Amount", "Status", "Error Code", "Transaction URL"}

func TestAppendCreatesHeader(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "transactions.csv")
	sink := auditlog.NewSink(path, transactionHeader)

	if err := sink.Append(ctx, []string{"0xabc", "1.5", "Success", "", "https://sepolia.basescan.org/tx/0x1"}); err != nil {
		t.Fatalf("Append() = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if got, want := lines[0], "Address,Amount,Status,Error Code,Transaction URL"; got != want {
		t.Errorf("header = %q, want %q", got, want)
	}
}

func TestAppendDoesNotRepeatHeader(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "transactions.csv")
	sink := auditlog.NewSink(path, transactionHeader)

	for i := 0; i < 3; i++ {
		if err := sink.Append(ctx, []string{"0xabc", "1", "Success", "", ""}); err != nil {
			t.Fatalf("Append() = %v", err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 4 {
		t.Errorf("got %d lines, want header plus 3 rows", len(lines))
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sink := auditlog.NewSink(filepath.Join(t.TempDir(), "trades.csv"),
		[]string{"Network", "From Amount", "Source Asset", "To Amount", "Target Asset", "Status", "Transaction URL"})

	want := [][]string{
		{"base", "1", "eth", "2500", "usdc", "Completed", "https://basescan.org/tx/0x2"},
		// Empty fields must survive the round trip untouched.
		{"sol", "5", "sol", "", "usdc", "Failed", ""},
	}
	if err := sink.Append(ctx, want...); err != nil {
		t.Fatalf("Append() = %v", err)
	}

	got, err := sink.Read(ctx)
	if err != nil {
		t.Fatalf("Read() = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want, +got):\n%s", diff)
	}
}

func TestReadMissingFile(t *testing.T) {
	t.Parallel()

	sink := auditlog.NewSink(filepath.Join(t.TempDir(), "never-written.csv"), transactionHeader)
	rows, err := sink.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %v, want none", rows)
	}
}

func TestFieldsWithCommasAreQuoted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sink := auditlog.NewSink(filepath.Join(t.TempDir(), "webhooks.csv"),
		[]string{"Webhook ID", "Network ID", "Event Type", "Event Filters", "Status"})

	want := [][]string{{"wh-1", "base-mainnet", "erc20_transfer", `{"addresses":["0xa","0xb"]}`, "active"}}
	if err := sink.Append(ctx, want...); err != nil {
		t.Fatalf("Append() = %v", err)
	}
	got, err := sink.Read(ctx)
	if err != nil {
		t.Fatalf("Read() = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want, +got):\n%s", diff)
	}
}
