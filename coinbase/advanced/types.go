/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package advanced

import "github.com/shopspring/decimal"

// Order sides.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Order types accepted by the advanced-trade plugin.
const (
	OrderTypeMarket = "MARKET"
	OrderTypeLimit  = "LIMIT"
)

// Amount is a currency-qualified value.
type Amount struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// Account is one brokerage account (a currency position).
type Account struct {
	UUID             string `json:"uuid"`
	Name             string `json:"name"`
	Currency         string `json:"currency"`
	AvailableBalance Amount `json:"available_balance"`
	Type             string `json:"type"`
	Active           bool   `json:"active"`
}

// MarketMarketIOC is an immediate-or-cancel market order. Exactly one of
// QuoteSize (BUY) or BaseSize (SELL) is set.
type MarketMarketIOC struct {
	QuoteSize string `json:"quote_size,omitempty"`
	BaseSize  string `json:"base_size,omitempty"`
}

// LimitLimitGTC is a good-til-cancelled limit order.
type LimitLimitGTC struct {
	BaseSize   string `json:"base_size"`
	LimitPrice string `json:"limit_price"`
	PostOnly   bool   `json:"post_only"`
}

// OrderConfiguration holds exactly one concrete order shape.
type OrderConfiguration struct {
	MarketMarketIOC *MarketMarketIOC `json:"market_market_ioc,omitempty"`
	LimitLimitGTC   *LimitLimitGTC   `json:"limit_limit_gtc,omitempty"`
}

// CreateOrderRequest places one order.
type CreateOrderRequest struct {
	ClientOrderID      string             `json:"client_order_id"`
	ProductID          string             `json:"product_id"`
	Side               string             `json:"side"`
	OrderConfiguration OrderConfiguration `json:"order_configuration"`
}

// CreateOrderResponse is the placement result. Success and the error detail
// are mutually exclusive.
type CreateOrderResponse struct {
	Success         bool `json:"success"`
	SuccessResponse struct {
		OrderID   string `json:"order_id"`
		ProductID string `json:"product_id"`
		Side      string `json:"side"`
	} `json:"success_response"`
	ErrorResponse struct {
		Error        string `json:"error"`
		Message      string `json:"message"`
		ErrorDetails string `json:"error_details"`
	} `json:"error_response"`
}

// Order is one historical order.
type Order struct {
	OrderID            string             `json:"order_id"`
	ProductID          string             `json:"product_id"`
	Side               string             `json:"side"`
	Status             string             `json:"status"`
	OrderConfiguration OrderConfiguration `json:"order_configuration"`
	FilledSize         decimal.Decimal    `json:"filled_size"`
	AverageFilledPrice decimal.Decimal    `json:"average_filled_price"`
}

// Fill is one execution against an order.
type Fill struct {
	TradeID   string          `json:"trade_id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Size      decimal.Decimal `json:"size"`
	Side      string          `json:"side"`
}

// Product is one tradable market.
type Product struct {
	ProductID       string          `json:"product_id"`
	Price           decimal.Decimal `json:"price"`
	BaseCurrencyID  string          `json:"base_currency_id"`
	QuoteCurrencyID string          `json:"quote_currency_id"`
	BaseName        string          `json:"base_name"`
	QuoteName       string          `json:"quote_name"`
	Status          string          `json:"status"`
}

// Candle is one OHLCV bucket.
type Candle struct {
	Start  string          `json:"start"`
	Low    decimal.Decimal `json:"low"`
	High   decimal.Decimal `json:"high"`
	Open   decimal.Decimal `json:"open"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
}

// Portfolio is one brokerage portfolio.
type Portfolio struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Deleted bool   `json:"deleted"`
}

// TransactionSummary reports fee tier and volume for the account.
type TransactionSummary struct {
	TotalVolume decimal.Decimal `json:"total_volume"`
	TotalFees   decimal.Decimal `json:"total_fees"`
	FeeTier     struct {
		PricingTier  string          `json:"pricing_tier"`
		MakerFeeRate decimal.Decimal `json:"maker_fee_rate"`
		TakerFeeRate decimal.Decimal `json:"taker_fee_rate"`
	} `json:"fee_tier"`
}

// KeyPermissions describes what the current API key may do.
type KeyPermissions struct {
	CanView     bool   `json:"can_view"`
	CanTrade    bool   `json:"can_trade"`
	CanTransfer bool   `json:"can_transfer"`
	PortfolioID string `json:"portfolio_uuid"`
}
