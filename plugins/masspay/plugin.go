/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package masspay exposes the mass-payout action: one request fans out into
// per-recipient transfers plus a protocol-fee payment, with every outcome
// logged durably and summarized back to the conversation.
package masspay

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/coinbaseaf/agents/extract"
	"chainguard.dev/coinbaseaf/agents/metrics"
	"chainguard.dev/coinbaseaf/agents/promptbuilder"
	"chainguard.dev/coinbaseaf/auditlog"
	"chainguard.dev/coinbaseaf/coinbase/cdp"
	"chainguard.dev/coinbaseaf/payouts"
	"chainguard.dev/coinbaseaf/runtime"
	"github.com/chainguard-dev/clog"
	"github.com/shopspring/decimal"
)

const (
	pluginName = "coinbaseMassPayments"
	actionName = "SEND_MASS_PAYOUT"
)

// Disburser runs one disbursement; satisfied by payouts.Orchestrator.
type Disburser interface {
	Disburse(ctx context.Context, req payouts.Request) ([]payouts.Outcome, error)
}

// Deps are the collaborators the plugin needs, wired once at construction.
type Deps struct {
	Extractor    extract.Extractor
	Wallets      cdp.Service
	Orchestrator Disburser
	Sink         *auditlog.Sink
	Metrics      *metrics.Actions
}

// TransferArgs are the parameters extracted from the conversation.
type TransferArgs struct {
	Network           string   `json:"network" jsonschema:"required,description=The network identifier to send on, such as base-sepolia or ethereum-mainnet"`
	AssetID           string   `json:"assetId" jsonschema:"required,description=The asset to transfer, such as eth or usdc"`
	Amount            float64  `json:"amount" jsonschema:"required,description=The amount to send to each recipient"`
	TransferAddresses []string `json:"transferAddresses" jsonschema:"required,description=The ordered list of recipient addresses"`
}

var transferTemplate = promptbuilder.MustNewPrompt(`Extract the mass payout parameters from the conversation below. The user wants to send the same amount of one asset to several addresses on one network.

Recent conversation:
{{recent_messages}}`)

// New assembles the mass-payment plugin.
func New(d Deps) runtime.Plugin {
	return runtime.Plugin{
		Name:        pluginName,
		Description: "Enable mass payments across specified networks, with optional fee splitting.",
		Actions:     []runtime.Action{action(d)},
		Providers:   []runtime.Provider{provider(d)},
	}
}

func action(d Deps) runtime.Action {
	return runtime.Action{
		Name:        actionName,
		Similes:     []string{"BULK_TRANSFER", "DISTRIBUTE_FUNDS", "SEND_PAYMENTS"},
		Description: "Sends mass payouts to multiple recipient addresses using a wallet.",
		Validate:    validateCredentials,
		Handler:     handler(d),
		Examples: [][]runtime.Example{{
			{User: "user", Text: "Send 0.005 ETH to 0x1111111111111111111111111111111111111111 and 0x2222222222222222222222222222222222222222 on base-sepolia."},
			{User: "agent", Text: "Mass payouts completed successfully.\n- Successful transactions: 2\n- Failed transactions: 0", Action: actionName},
		}},
	}
}

func validateCredentials(_ context.Context, rt runtime.Runtime, _ runtime.Message) (bool, error) {
	return rt.Setting("COINBASE_API_KEY") != "" && rt.Setting("COINBASE_PRIVATE_KEY") != "", nil
}

func handler(d Deps) runtime.Handler {
	return func(ctx context.Context, rt runtime.Runtime, msg runtime.Message, state *runtime.State, cb runtime.Callback) (err error) {
		defer func() { d.Metrics.RecordInvocation(ctx, pluginName, actionName, err) }()
		log := clog.FromContext(ctx).With("plugin", pluginName, "action", actionName)

		if state == nil {
			if state, err = rt.ComposeState(ctx, msg); err != nil {
				return fmt.Errorf("composing state: %w", err)
			}
		}

		prompt, err := transferTemplate.BindText("recent_messages", state.RecentMessages)
		if err != nil {
			return fmt.Errorf("binding conversation: %w", err)
		}
		args, err := extract.Object[TransferArgs](ctx, d.Extractor, prompt, extract.SizeLarge)
		if err != nil {
			cb(runtime.Reply{Text: "I couldn't work out the payout details. Please specify the network, asset, amount, and recipient addresses."})
			return fmt.Errorf("extracting payout parameters: %w", err)
		}
		if len(args.TransferAddresses) == 0 {
			cb(runtime.Reply{Text: "No recipient addresses were provided for the mass payout."})
			return fmt.Errorf("no recipients extracted")
		}

		ledger, err := d.Orchestrator.Disburse(ctx, payouts.Request{
			NetworkID:  args.Network,
			AssetID:    args.AssetID,
			Recipients: args.TransferAddresses,
			Amount:     decimal.NewFromFloat(args.Amount),
		})
		if err != nil {
			cb(runtime.Reply{Text: "The payout could not start: the wallet is unavailable. Please check the Coinbase credentials."})
			return fmt.Errorf("disbursing: %w", err)
		}

		log.With("outcomes", len(ledger)).Infof("mass payout complete")
		cb(runtime.Reply{Text: renderSummary(ledger)})
		return nil
	}
}

// renderSummary partitions the ledger into a conversational report.
func renderSummary(ledger []payouts.Outcome) string {
	s := payouts.Summarize(ledger)

	var b strings.Builder
	fmt.Fprintf(&b, "Mass payouts completed successfully.\n- Successful transactions: %d\n- Failed transactions: %d\n",
		len(s.Succeeded), len(s.Failed))
	if len(s.Succeeded) > 0 {
		b.WriteString("\nSuccessful transactions:\n")
		for _, o := range s.Succeeded {
			fmt.Fprintf(&b, "- %s %s: %s\n", o.Amount, o.Address, o.TransactionURL)
		}
	}
	if len(s.Failed) > 0 {
		b.WriteString("\nFailed transactions:\n")
		for _, o := range s.Failed {
			fmt.Fprintf(&b, "- %s %s: %s\n", o.Amount, o.Address, o.ErrorCode)
		}
	}
	return b.String()
}
