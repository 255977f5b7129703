/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package trade exposes the asset-swap action. When fee splitting is
// configured, one percent of the requested amount is transferred to the
// network's fee destination before the swap and the remainder is traded.
package trade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chainguard.dev/coinbaseaf/agents/extract"
	"chainguard.dev/coinbaseaf/agents/metrics"
	"chainguard.dev/coinbaseaf/agents/promptbuilder"
	"chainguard.dev/coinbaseaf/auditlog"
	"chainguard.dev/coinbaseaf/coinbase/cdp"
	"chainguard.dev/coinbaseaf/coinbase/networks"
	"chainguard.dev/coinbaseaf/payouts"
	"chainguard.dev/coinbaseaf/runtime"
	"github.com/chainguard-dev/clog"
	"github.com/shopspring/decimal"
)

const (
	pluginName = "coinbaseTrade"
	actionName = "EXECUTE_TRADE"
)

// AuditHeader is the column layout of the trade audit log.
var AuditHeader = []string{"Network", "From Amount", "Source Asset", "To Amount", "Target Asset", "Status", "Transaction URL"}

// Deps are the collaborators the plugin needs, wired once at construction.
type Deps struct {
	Extractor extract.Extractor
	Wallets   cdp.Service
	Executor  payouts.TransferExecutor
	Splitter  payouts.FeeSplitter
	Sink      *auditlog.Sink
	Metrics   *metrics.Actions

	// Trade confirmation polling.
	Poll    time.Duration
	Timeout time.Duration
}

// TradeArgs are the parameters extracted from the conversation.
type TradeArgs struct {
	Network     string  `json:"network" jsonschema:"required,description=The short network name to trade on: base, sol, eth, arb, or pol"`
	Amount      float64 `json:"amount" jsonschema:"required,description=The amount of the source asset to trade"`
	SourceAsset string  `json:"sourceAsset" jsonschema:"required,description=The asset to sell, such as eth or usdc"`
	TargetAsset string  `json:"targetAsset" jsonschema:"required,description=The asset to buy, such as eth or usdc"`
}

var tradeTemplate = promptbuilder.MustNewPrompt(`Extract the trade parameters from the conversation below. The user wants to swap one asset for another on a specific network.

Recent conversation:
{{recent_messages}}`)

// New assembles the trade plugin.
func New(d Deps) runtime.Plugin {
	return runtime.Plugin{
		Name:        pluginName,
		Description: "Enable asset trading using the Coinbase SDK.",
		Actions:     []runtime.Action{action(d)},
		Providers:   []runtime.Provider{provider(d)},
	}
}

func action(d Deps) runtime.Action {
	return runtime.Action{
		Name:        actionName,
		Similes:     []string{"TRADE", "SWAP", "EXCHANGE", "CONVERT"},
		Description: "Execute a trade between two assets using the Coinbase SDK.",
		Validate:    validateCredentials,
		Handler:     handler(d),
		Examples: [][]runtime.Example{{
			{User: "user", Text: "Trade 0.5 ETH for USDC on base."},
			{User: "agent", Text: "Trade completed successfully: swapped 0.5 eth for usdc on base.", Action: actionName},
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

		prompt, err := tradeTemplate.BindText("recent_messages", state.RecentMessages)
		if err != nil {
			return fmt.Errorf("binding conversation: %w", err)
		}
		args, err := extract.Object[TradeArgs](ctx, d.Extractor, prompt, extract.SizeLarge)
		if err != nil {
			cb(runtime.Reply{Text: "I couldn't work out the trade details. Please specify the network, amount, and the two assets."})
			return fmt.Errorf("extracting trade parameters: %w", err)
		}
		if !networks.IsTradeable(args.Network) {
			cb(runtime.Reply{Text: fmt.Sprintf("Trading is not supported on %q. Supported networks: %s.",
				args.Network, strings.Join(networks.Tradeable(), ", "))})
			return fmt.Errorf("unsupported trade network %q", args.Network)
		}

		wallet, err := d.Wallets.ResolveOrCreateWallet(ctx, networks.Expand(args.Network))
		if err != nil {
			cb(runtime.Reply{Text: "The trade could not start: the wallet is unavailable. Please check the Coinbase credentials."})
			return fmt.Errorf("resolving wallet: %w", err)
		}

		amount := decimal.NewFromFloat(args.Amount)
		tradeAmount := amount
		if split, splitErr := d.Splitter.Split(args.Network, amount); splitErr != nil {
			log.Infof("no fee transfer: %v", splitErr)
		} else {
			// The fee comes off the top; a failed fee transfer is recorded
			// in the transfer log by the executor path but never blocks the
			// trade itself.
			if res := d.Executor.Execute(ctx, wallet, split.Fee, args.SourceAsset, split.Address); res.Failure != nil {
				log.Errorf("fee transfer failed: %v", res.Failure)
			} else {
				tradeAmount = amount.Sub(split.Fee)
			}
		}

		trade, err := d.waitTrade(ctx, wallet, cdp.TradeRequest{
			Amount:      tradeAmount,
			FromAssetID: args.SourceAsset,
			ToAssetID:   args.TargetAsset,
		})
		status := "Completed"
		if err != nil {
			status = "Failed"
		}

		row := []string{args.Network, tradeAmount.String(), args.SourceAsset, "", args.TargetAsset, status, ""}
		if trade != nil {
			row[3] = trade.ToAmount.String()
			row[6] = trade.TransactionLink
		}
		if appendErr := d.Sink.Append(ctx, row); appendErr != nil {
			log.Errorf("recording trade outcome: %v", appendErr)
		}

		if err != nil {
			cb(runtime.Reply{Text: fmt.Sprintf("The trade of %s %s for %s on %s failed.", tradeAmount, args.SourceAsset, args.TargetAsset, args.Network)})
			return fmt.Errorf("trading %s %s for %s: %w", tradeAmount, args.SourceAsset, args.TargetAsset, err)
		}
		cb(runtime.Reply{Text: fmt.Sprintf("Trade completed successfully: swapped %s %s for %s %s on %s.\nTransaction: %s",
			tradeAmount, args.SourceAsset, trade.ToAmount, args.TargetAsset, args.Network, trade.TransactionLink)})
		return nil
	}
}

// waitTrade initiates the swap and polls until it completes, fails, or the
// confirmation wait times out.
func (d Deps) waitTrade(ctx context.Context, wallet *cdp.Wallet, req cdp.TradeRequest) (*cdp.Trade, error) {
	trade, err := d.Wallets.CreateTrade(ctx, wallet, req)
	if err != nil {
		return nil, fmt.Errorf("initiating trade: %w", err)
	}

	deadline := time.NewTimer(d.Timeout)
	defer deadline.Stop()
	tick := time.NewTicker(d.Poll)
	defer tick.Stop()

	for {
		switch trade.Status {
		case cdp.TransferStatusComplete:
			return trade, nil
		case cdp.TransferStatusFailed:
			return trade, fmt.Errorf("trade %s reported failed by the wallet service", trade.ID)
		}

		select {
		case <-ctx.Done():
			return trade, ctx.Err()
		case <-deadline.C:
			return trade, fmt.Errorf("trade %s unconfirmed after %s", trade.ID, d.Timeout)
		case <-tick.C:
			updated, err := d.Wallets.TradeStatus(ctx, wallet, trade.ID)
			if err != nil {
				return trade, fmt.Errorf("polling trade %s: %w", trade.ID, err)
			}
			trade = updated
		}
	}
}
