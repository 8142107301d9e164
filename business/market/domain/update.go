package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/solarb/solana-arb-bot/internal/token"
)

// PriceUpdate is the normalized price observation every venue listener
// emits. Asset is the token mint, Price is quoted in SOL per token at
// full precision.
type PriceUpdate struct {
	Asset      token.Mint
	Venue      Venue
	Price      decimal.Decimal
	PoolID     string
	ObservedAt time.Time
}

// Valid reports whether the update carries everything the detection
// pipeline needs. Listeners drop invalid updates at the edge.
func (u PriceUpdate) Valid() bool {
	return u.Asset != "" && u.Venue.Valid() && u.Price.IsPositive()
}

// PumpSwapTrade is a decoded PumpSwap AMM trade event.
type PumpSwapTrade struct {
	Pool        string
	Mint        token.Mint
	SolAmount   decimal.Decimal // SOL side of the fill
	TokenAmount decimal.Decimal // token side of the fill
	Slot        uint64
	Signature   string
}

// Normalize derives a PriceUpdate from the trade's fill amounts.
// Returns false when the trade cannot produce a price.
func (t PumpSwapTrade) Normalize(at time.Time) (PriceUpdate, bool) {
	if t.Mint == "" || !t.TokenAmount.IsPositive() || !t.SolAmount.IsPositive() {
		return PriceUpdate{}, false
	}
	return PriceUpdate{
		Asset:      t.Mint,
		Venue:      VenuePumpSwap,
		Price:      t.SolAmount.Div(t.TokenAmount),
		PoolID:     t.Pool,
		ObservedAt: at,
	}, true
}

// DammV2Swap is a decoded Meteora DAMM v2 swap event. The pool price is
// carried as the post-swap sqrt price, already converted by the decoder.
type DammV2Swap struct {
	Pool      string
	Mint      token.Mint
	Price     decimal.Decimal
	Slot      uint64
	Signature string
}

// Normalize derives a PriceUpdate from the swap.
func (s DammV2Swap) Normalize(at time.Time) (PriceUpdate, bool) {
	if s.Mint == "" || !s.Price.IsPositive() {
		return PriceUpdate{}, false
	}
	return PriceUpdate{
		Asset:      s.Mint,
		Venue:      VenueDammV2,
		Price:      s.Price,
		PoolID:     s.Pool,
		ObservedAt: at,
	}, true
}

// DLMMSwap is a decoded Meteora DLMM swap event. The price comes from
// the active bin after the swap.
type DLMMSwap struct {
	Pool      string
	Mint      token.Mint
	Price     decimal.Decimal
	Slot      uint64
	Signature string
}

// Normalize derives a PriceUpdate from the swap.
func (s DLMMSwap) Normalize(at time.Time) (PriceUpdate, bool) {
	if s.Mint == "" || !s.Price.IsPositive() {
		return PriceUpdate{}, false
	}
	return PriceUpdate{
		Asset:      s.Mint,
		Venue:      VenueDLMM,
		Price:      s.Price,
		PoolID:     s.Pool,
		ObservedAt: at,
	}, true
}
