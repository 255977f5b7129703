/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package masspay

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/coinbaseaf/coinbase/cdp"
	"chainguard.dev/coinbaseaf/coinbase/networks"
	"chainguard.dev/coinbaseaf/runtime"
	"github.com/chainguard-dev/clog"
)

// provider surfaces the wallet position and the recorded payout history so
// the runtime can ground follow-up questions without re-querying the chain.
func provider(d Deps) runtime.Provider {
	return runtime.Provider{
		Name: "massPaymentsProvider",
		Get: func(ctx context.Context, _ runtime.Runtime, _ runtime.Message) (string, error) {
			log := clog.FromContext(ctx).With("provider", "massPayments")

			var b strings.Builder
			details, err := cdp.Details(ctx, d.Wallets, networks.BaseSepolia)
			if err != nil {
				log.Errorf("fetching wallet details: %v", err)
			} else {
				fmt.Fprintf(&b, "Wallet address: %s\nBalances:\n", details.Address)
				for _, bal := range details.Balances {
					fmt.Fprintf(&b, "- %s: %s\n", bal.AssetID, bal.Amount)
				}
			}

			rows, err := d.Sink.Read(ctx)
			if err != nil {
				return "", fmt.Errorf("reading transaction log: %w", err)
			}
			if len(rows) > 0 {
				b.WriteString("\nRecorded transactions:\n")
				for _, row := range rows {
					fmt.Fprintf(&b, "- %s\n", strings.Join(row, ", "))
				}
			}
			return b.String(), nil
		},
	}
}
