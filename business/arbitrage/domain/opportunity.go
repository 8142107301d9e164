// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"time"

	"github.com/shopspring/decimal"

	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/token"
)

// DivergenceEpsilon is the smallest divergence-percent delta treated as
// a real change. Anything below it is float noise.
const DivergenceEpsilon = 1e-9

// VenuePrice is one venue's latest observation for an asset.
type VenuePrice struct {
	Price     decimal.Decimal
	PoolID    string
	UpdatedAt time.Time
}

// Opportunity is the cross-venue price picture for one asset. Divergence
// is only defined once at least two venues have reported; a single quote
// has nothing to diverge from.
type Opportunity struct {
	Asset             token.Mint
	Venues            map[marketDomain.Venue]VenuePrice
	PriceDiff         decimal.Decimal
	DivergencePercent float64
	DivergenceDefined bool
	UpdatedAt         time.Time
}

// Compute builds an Opportunity from the venue observations, deriving
// the absolute price difference and the divergence percent relative to
// the mid price: |max-min| / ((max+min)/2) * 100.
func Compute(asset token.Mint, venues map[marketDomain.Venue]VenuePrice, at time.Time) Opportunity {
	opp := Opportunity{
		Asset:     asset,
		Venues:    venues,
		UpdatedAt: at,
	}

	if len(venues) < 2 {
		return opp
	}

	var minPrice, maxPrice decimal.Decimal
	first := true
	for _, vp := range venues {
		if first {
			minPrice, maxPrice = vp.Price, vp.Price
			first = false
			continue
		}
		if vp.Price.LessThan(minPrice) {
			minPrice = vp.Price
		}
		if vp.Price.GreaterThan(maxPrice) {
			maxPrice = vp.Price
		}
	}

	mid := maxPrice.Add(minPrice).Div(decimal.NewFromInt(2))
	if !mid.IsPositive() {
		return opp
	}

	diff := maxPrice.Sub(minPrice)
	pct, _ := diff.Div(mid).Mul(decimal.NewFromInt(100)).Float64()

	opp.PriceDiff = diff
	opp.DivergencePercent = pct
	opp.DivergenceDefined = true
	return opp
}

// Spread returns the cheapest and most expensive venues. Only valid
// when divergence is defined.
func (o Opportunity) Spread() (buy, sell marketDomain.Venue, ok bool) {
	if !o.DivergenceDefined {
		return "", "", false
	}

	first := true
	var minPrice, maxPrice decimal.Decimal
	for v, vp := range o.Venues {
		if first {
			buy, sell = v, v
			minPrice, maxPrice = vp.Price, vp.Price
			first = false
			continue
		}
		if vp.Price.LessThan(minPrice) {
			minPrice = vp.Price
			buy = v
		}
		if vp.Price.GreaterThan(maxPrice) {
			maxPrice = vp.Price
			sell = v
		}
	}
	return buy, sell, true
}

// Clone returns a deep copy safe to hand outside the store's lock.
func (o Opportunity) Clone() Opportunity {
	venues := make(map[marketDomain.Venue]VenuePrice, len(o.Venues))
	for v, vp := range o.Venues {
		venues[v] = vp
	}
	o.Venues = venues
	return o
}

// MaterialChange reports whether next differs from prev in a way worth
// acting on: a venue price moved, venue coverage changed, or the
// divergence moved by more than DivergenceEpsilon.
func MaterialChange(prev, next Opportunity) bool {
	if len(prev.Venues) != len(next.Venues) {
		return true
	}
	for v, np := range next.Venues {
		pp, ok := prev.Venues[v]
		if !ok || !pp.Price.Equal(np.Price) {
			return true
		}
	}
	if prev.DivergenceDefined != next.DivergenceDefined {
		return true
	}
	if !next.DivergenceDefined {
		return false
	}

	delta := next.DivergencePercent - prev.DivergencePercent
	if delta < 0 {
		delta = -delta
	}
	return delta > DivergenceEpsilon
}
