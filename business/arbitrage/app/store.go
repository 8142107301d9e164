// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solarb/solana-arb-bot/business/arbitrage/domain"
	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/token"
)

// OpportunityStore holds the cross-venue price picture per asset.
// Upsert is the only mutation path; every read hands out deep copies.
type OpportunityStore struct {
	mu   sync.RWMutex
	opps map[token.Mint]domain.Opportunity
}

// NewOpportunityStore creates an empty store.
func NewOpportunityStore() *OpportunityStore {
	return &OpportunityStore{
		opps: make(map[token.Mint]domain.Opportunity),
	}
}

// Get returns a copy of the asset's opportunity.
func (s *OpportunityStore) Get(asset token.Mint) (domain.Opportunity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	opp, ok := s.opps[asset]
	if !ok {
		return domain.Opportunity{}, false
	}
	return opp.Clone(), true
}

// Upsert records one venue's observation for an asset, creating the
// entry on first sight, and recomputes the divergence from the full
// venue set. Returns a copy of the updated opportunity.
func (s *OpportunityStore) Upsert(asset token.Mint, venue marketDomain.Venue, price decimal.Decimal, poolID string, at time.Time) domain.Opportunity {
	s.mu.Lock()
	defer s.mu.Unlock()

	venues := make(map[marketDomain.Venue]domain.VenuePrice)
	if existing, ok := s.opps[asset]; ok {
		for v, vp := range existing.Venues {
			venues[v] = vp
		}
	}

	venues[venue] = domain.VenuePrice{
		Price:     price,
		PoolID:    poolID,
		UpdatedAt: at,
	}

	opp := domain.Compute(asset, venues, at)
	s.opps[asset] = opp
	return opp.Clone()
}

// All returns copies of every tracked opportunity.
func (s *OpportunityStore) All() []domain.Opportunity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Opportunity, 0, len(s.opps))
	for _, opp := range s.opps {
		out = append(out, opp.Clone())
	}
	return out
}

// AboveThreshold returns the opportunities whose divergence is defined
// and at least minPercent, sorted by divergence descending. Assets with
// fewer than two venues never appear.
func (s *OpportunityStore) AboveThreshold(minPercent float64) []domain.Opportunity {
	s.mu.RLock()
	out := make([]domain.Opportunity, 0, len(s.opps))
	for _, opp := range s.opps {
		if opp.DivergenceDefined && opp.DivergencePercent >= minPercent {
			out = append(out, opp.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].DivergencePercent > out[j].DivergencePercent
	})
	return out
}

// Len returns the number of tracked assets.
func (s *OpportunityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.opps)
}
