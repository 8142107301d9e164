// Package domain contains the core domain types for the execution context.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/token"
)

// Side is the direction of a single swap leg.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// SwapLeg is one swap on one venue.
type SwapLeg struct {
	Side      Side
	Venue     marketDomain.Venue
	Pool      string
	Mint      token.Mint
	Price     decimal.Decimal // expected execution price, SOL per token
	AmountSOL decimal.Decimal // SOL notional for the leg
}

// TradeRequest is a two-leg arbitrage trade: buy on the cheap venue,
// sell on the expensive one.
type TradeRequest struct {
	ID              uuid.UUID
	Mint            token.Mint
	Buy             SwapLeg
	Sell            SwapLeg
	SlippagePercent decimal.Decimal
	CreatedAt       time.Time
}

// NewTradeRequest builds a request with a fresh ID.
func NewTradeRequest(mint token.Mint, buy, sell SwapLeg, slippagePercent decimal.Decimal) TradeRequest {
	return TradeRequest{
		ID:              uuid.New(),
		Mint:            mint,
		Buy:             buy,
		Sell:            sell,
		SlippagePercent: slippagePercent,
		CreatedAt:       time.Now(),
	}
}

// Valid reports whether the request can be executed.
func (r TradeRequest) Valid() bool {
	return r.Mint != "" &&
		r.Buy.Pool != "" && r.Sell.Pool != "" &&
		r.Buy.Venue != r.Sell.Venue &&
		r.Buy.AmountSOL.IsPositive() &&
		r.Buy.Price.IsPositive() && r.Sell.Price.IsPositive()
}

// MinTokensOut applies the slippage tolerance to the buy leg: the
// fewest tokens acceptable for the SOL spent.
func (r TradeRequest) MinTokensOut() decimal.Decimal {
	if !r.Buy.Price.IsPositive() {
		return decimal.Zero
	}
	expected := r.Buy.AmountSOL.Div(r.Buy.Price)
	tolerance := decimal.NewFromInt(1).Sub(r.SlippagePercent.Div(decimal.NewFromInt(100)))
	return expected.Mul(tolerance)
}

// MinSOLOut applies the slippage tolerance to the sell leg: the least
// SOL acceptable for the tokens sold.
func (r TradeRequest) MinSOLOut() decimal.Decimal {
	expected := r.Buy.AmountSOL.Div(r.Buy.Price).Mul(r.Sell.Price)
	tolerance := decimal.NewFromInt(1).Sub(r.SlippagePercent.Div(decimal.NewFromInt(100)))
	return expected.Mul(tolerance)
}

// TradeResult is the terminal outcome of a trade request.
type TradeResult struct {
	RequestID   uuid.UUID
	Success     bool
	BuySig      string
	SellSig     string
	Err         error
	CompletedAt time.Time
}
