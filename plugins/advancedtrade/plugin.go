/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package advancedtrade exposes order placement against the Advanced Trade
// brokerage API: market and limit orders with a pre-flight USD balance check
// on the buy side.
package advancedtrade

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/coinbaseaf/agents/extract"
	"chainguard.dev/coinbaseaf/agents/metrics"
	"chainguard.dev/coinbaseaf/agents/promptbuilder"
	"chainguard.dev/coinbaseaf/auditlog"
	"chainguard.dev/coinbaseaf/coinbase/advanced"
	"chainguard.dev/coinbaseaf/runtime"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	pluginName = "coinbaseAdvancedTrade"
	actionName = "EXECUTE_ADVANCED_TRADE"

	// Buys must leave headroom for fees on top of the quoted amount.
	buyFeeHeadroom = "1.01"

	accountPageSize = 250
)

// AuditHeader is the column layout of the advanced-trade audit log.
var AuditHeader = []string{"Product ID", "Side", "Amount", "Order Type", "Status", "Order ID"}

// Brokerage is the slice of the Advanced Trade API the plugin needs;
// satisfied by advanced.Client.
type Brokerage interface {
	ListAccounts(ctx context.Context, limit int, cursor string) ([]advanced.Account, string, error)
	CreateOrder(ctx context.Context, order advanced.CreateOrderRequest) (*advanced.CreateOrderResponse, error)
}

// Deps are the collaborators the plugin needs, wired once at construction.
type Deps struct {
	Extractor extract.Extractor
	Brokerage Brokerage
	Sink      *auditlog.Sink
	Metrics   *metrics.Actions
}

// OrderArgs are the parameters extracted from the conversation.
type OrderArgs struct {
	ProductID  string  `json:"productId" jsonschema:"required,description=The product to trade, such as BTC-USD"`
	Side       string  `json:"side" jsonschema:"required,description=The order side: BUY or SELL"`
	Amount     float64 `json:"amount" jsonschema:"required,description=For market buys the quote amount to spend; otherwise the base amount to trade"`
	OrderType  string  `json:"orderType" jsonschema:"required,description=The order type: MARKET or LIMIT"`
	LimitPrice float64 `json:"limitPrice,omitempty" jsonschema:"description=The limit price, required for limit orders"`
}

var orderTemplate = promptbuilder.MustNewPrompt(`Extract the order parameters from the conversation below. The user wants to place an order on the Coinbase Advanced Trade exchange.

Recent conversation:
{{recent_messages}}`)

// New assembles the advanced-trade plugin.
func New(d Deps) runtime.Plugin {
	return runtime.Plugin{
		Name:        pluginName,
		Description: "Enable trading via the Coinbase Advanced Trade API.",
		Actions:     []runtime.Action{action(d)},
		Providers:   []runtime.Provider{provider(d)},
	}
}

func action(d Deps) runtime.Action {
	return runtime.Action{
		Name:        actionName,
		Similes:     []string{"ADVANCED_TRADE", "PLACE_ORDER", "MARKET_ORDER", "LIMIT_ORDER"},
		Description: "Place market or limit orders using the Advanced Trade API.",
		Validate: func(_ context.Context, rt runtime.Runtime, _ runtime.Message) (bool, error) {
			return rt.Setting("COINBASE_API_KEY") != "" && rt.Setting("COINBASE_PRIVATE_KEY") != "", nil
		},
		Handler: handler(d),
		Examples: [][]runtime.Example{{
			{User: "user", Text: "Buy $100 of BTC at market on BTC-USD."},
			{User: "agent", Text: "Order placed successfully: market BUY of 100 on BTC-USD.", Action: actionName},
		}},
	}
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
		prompt, err := orderTemplate.BindText("recent_messages", state.RecentMessages)
		if err != nil {
			return fmt.Errorf("binding conversation: %w", err)
		}
		args, err := extract.Object[OrderArgs](ctx, d.Extractor, prompt, extract.SizeSmall)
		if err != nil {
			cb(runtime.Reply{Text: "I couldn't work out the order details. Please specify the product, side, amount, and order type."})
			return fmt.Errorf("extracting order parameters: %w", err)
		}
		args.Side = strings.ToUpper(args.Side)
		args.OrderType = strings.ToUpper(args.OrderType)

		amount := decimal.NewFromFloat(args.Amount)
		if args.Side == advanced.SideBuy {
			if err := d.checkBuyingPower(ctx, amount); err != nil {
				cb(runtime.Reply{Text: fmt.Sprintf("The order was not placed: %v", err)})
				return err
			}
		}

		order, err := buildOrder(args, amount)
		if err != nil {
			cb(runtime.Reply{Text: err.Error()})
			return err
		}

		resp, err := d.Brokerage.CreateOrder(ctx, order)
		status, orderID := "Failed", ""
		if err == nil && resp.Success {
			status, orderID = "Placed", resp.SuccessResponse.OrderID
		}
		if appendErr := d.Sink.Append(ctx, []string{
			args.ProductID, args.Side, amount.String(), args.OrderType, status, orderID,
		}); appendErr != nil {
			log.Errorf("recording order outcome: %v", appendErr)
		}

		if err != nil {
			cb(runtime.Reply{Text: "The order could not be placed. Please check the API credentials and try again."})
			return fmt.Errorf("placing order: %w", err)
		}
		if !resp.Success {
			cb(runtime.Reply{Text: fmt.Sprintf("The exchange rejected the order: %s.", resp.ErrorResponse.Message)})
			return fmt.Errorf("order rejected: %s", resp.ErrorResponse.Error)
		}

		log.With("order", orderID).Infof("order placed")
		cb(runtime.Reply{Text: fmt.Sprintf("Order placed successfully: %s %s of %s on %s. Order ID: %s",
			strings.ToLower(args.OrderType), args.Side, amount, args.ProductID, orderID)})
		return nil
	}
}

// checkBuyingPower verifies the USD account covers the quoted amount plus
// fee headroom before a buy is submitted.
func (d Deps) checkBuyingPower(ctx context.Context, amount decimal.Decimal) error {
	accounts, _, err := d.Brokerage.ListAccounts(ctx, accountPageSize, "")
	if err != nil {
		return fmt.Errorf("checking buying power: %w", err)
	}
	required := amount.Mul(decimal.RequireFromString(buyFeeHeadroom))
	for _, a := range accounts {
		if a.Currency != "USD" {
			continue
		}
		if a.AvailableBalance.Value.LessThan(required) {
			return fmt.Errorf("insufficient USD balance: have %s, need %s including fees", a.AvailableBalance.Value, required)
		}
		return nil
	}
	return fmt.Errorf("no USD account found")
}

// buildOrder maps the extracted arguments onto the exchange order shape.
// Market buys size in quote currency; everything else sizes in base.
func buildOrder(args OrderArgs, amount decimal.Decimal) (advanced.CreateOrderRequest, error) {
	order := advanced.CreateOrderRequest{
		ClientOrderID: uuid.NewString(),
		ProductID:     args.ProductID,
		Side:          args.Side,
	}

	switch args.OrderType {
	case advanced.OrderTypeMarket:
		ioc := &advanced.MarketMarketIOC{}
		if args.Side == advanced.SideBuy {
			ioc.QuoteSize = amount.String()
		} else {
			ioc.BaseSize = amount.String()
		}
		order.OrderConfiguration.MarketMarketIOC = ioc
	case advanced.OrderTypeLimit:
		if args.LimitPrice <= 0 {
			return order, fmt.Errorf("a limit order needs a positive limit price")
		}
		order.OrderConfiguration.LimitLimitGTC = &advanced.LimitLimitGTC{
			BaseSize:   amount.String(),
			LimitPrice: decimal.NewFromFloat(args.LimitPrice).String(),
		}
	default:
		return order, fmt.Errorf("unsupported order type %q; use MARKET or LIMIT", args.OrderType)
	}
	return order, nil
}

// provider surfaces the brokerage account positions and the order history.
func provider(d Deps) runtime.Provider {
	return runtime.Provider{
		Name: "advancedTradeProvider",
		Get: func(ctx context.Context, _ runtime.Runtime, _ runtime.Message) (string, error) {
			accounts, _, err := d.Brokerage.ListAccounts(ctx, accountPageSize, "")
			if err != nil {
				return "", fmt.Errorf("listing accounts: %w", err)
			}
			if len(accounts) == 0 {
				return "No brokerage accounts found.", nil
			}
			var b strings.Builder
			b.WriteString("Brokerage accounts:\n")
			for _, a := range accounts {
				fmt.Fprintf(&b, "- %s: %s %s\n", a.Currency, a.AvailableBalance.Value, a.AvailableBalance.Currency)
			}

			rows, err := d.Sink.Read(ctx)
			if err != nil {
				return "", fmt.Errorf("reading order history: %w", err)
			}
			if len(rows) > 0 {
				b.WriteString("Recent orders:\n")
				for _, r := range rows {
					fmt.Fprintf(&b, "- %s\n", strings.Join(r, " | "))
				}
			}
			return b.String(), nil
		},
	}
}
