/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trade

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/coinbaseaf/runtime"
)

// provider surfaces the recorded trade history from the audit log.
func provider(d Deps) runtime.Provider {
	return runtime.Provider{
		Name: "tradeProvider",
		Get: func(ctx context.Context, _ runtime.Runtime, _ runtime.Message) (string, error) {
			rows, err := d.Sink.Read(ctx)
			if err != nil {
				return "", fmt.Errorf("reading trade log: %w", err)
			}
			if len(rows) == 0 {
				return "No trades recorded.", nil
			}
			var b strings.Builder
			b.WriteString("Recorded trades:\n")
			for _, row := range rows {
				fmt.Fprintf(&b, "- %s\n", strings.Join(row, ", "))
			}
			return b.String(), nil
		},
	}
}
