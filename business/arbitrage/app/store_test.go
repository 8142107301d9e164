package app

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/token"
)

const (
	mintBonk = token.Mint("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")
	mintJup  = token.Mint("JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN")
	mintWif  = token.Mint("EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm")
)

func TestStoreSingleVenueUndefined(t *testing.T) {
	store := NewOpportunityStore()

	opp := store.Upsert(mintBonk, marketDomain.VenuePumpSwap,
		decimal.RequireFromString("0.0000012"), "pool-a", time.Now())

	if opp.DivergenceDefined {
		t.Error("divergence defined with one venue")
	}
	if len(opp.Venues) != 1 {
		t.Fatalf("venue count = %d, want 1", len(opp.Venues))
	}
}

func TestStoreUpsertAccumulatesVenues(t *testing.T) {
	store := NewOpportunityStore()

	store.Upsert(mintBonk, marketDomain.VenuePumpSwap,
		decimal.RequireFromString("1.00"), "pool-a", time.Now())
	opp := store.Upsert(mintBonk, marketDomain.VenueDammV2,
		decimal.RequireFromString("1.05"), "pool-b", time.Now())

	if !opp.DivergenceDefined {
		t.Fatal("divergence undefined with two venues")
	}
	if got := len(opp.Venues); got != 2 {
		t.Fatalf("venue count = %d, want 2", got)
	}
	if opp.Venues[marketDomain.VenueDammV2].PoolID != "pool-b" {
		t.Errorf("pool id = %q, want pool-b", opp.Venues[marketDomain.VenueDammV2].PoolID)
	}
}

func TestStoreUpsertReplacesVenuePrice(t *testing.T) {
	store := NewOpportunityStore()
	now := time.Now()

	store.Upsert(mintBonk, marketDomain.VenuePumpSwap, decimal.RequireFromString("1.00"), "pool-a", now)
	opp := store.Upsert(mintBonk, marketDomain.VenuePumpSwap, decimal.RequireFromString("1.10"), "pool-a", now)

	if got := len(opp.Venues); got != 1 {
		t.Fatalf("venue count = %d, want 1", got)
	}
	if !opp.Venues[marketDomain.VenuePumpSwap].Price.Equal(decimal.RequireFromString("1.10")) {
		t.Errorf("price = %s, want 1.10", opp.Venues[marketDomain.VenuePumpSwap].Price)
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	store := NewOpportunityStore()
	store.Upsert(mintBonk, marketDomain.VenuePumpSwap, decimal.RequireFromString("1.00"), "pool-a", time.Now())

	opp, ok := store.Get(mintBonk)
	if !ok {
		t.Fatal("Get returned ok = false")
	}
	opp.Venues[marketDomain.VenueDLMM] = opp.Venues[marketDomain.VenuePumpSwap]

	fresh, _ := store.Get(mintBonk)
	if len(fresh.Venues) != 1 {
		t.Error("mutating a Get copy leaked into the store")
	}
}

func TestStoreAboveThreshold(t *testing.T) {
	store := NewOpportunityStore()
	now := time.Now()

	// ~4.88% divergence
	store.Upsert(mintBonk, marketDomain.VenuePumpSwap, decimal.RequireFromString("1.00"), "p1", now)
	store.Upsert(mintBonk, marketDomain.VenueDammV2, decimal.RequireFromString("1.05"), "p2", now)

	// ~9.52% divergence
	store.Upsert(mintJup, marketDomain.VenuePumpSwap, decimal.RequireFromString("1.00"), "p3", now)
	store.Upsert(mintJup, marketDomain.VenueDLMM, decimal.RequireFromString("1.10"), "p4", now)

	// single venue, never listed
	store.Upsert(mintWif, marketDomain.VenuePumpSwap, decimal.RequireFromString("2.00"), "p5", now)

	got := store.AboveThreshold(1.0)
	if len(got) != 2 {
		t.Fatalf("AboveThreshold returned %d rows, want 2", len(got))
	}
	if got[0].Asset != mintJup || got[1].Asset != mintBonk {
		t.Errorf("rows not sorted by divergence descending: %s, %s", got[0].Asset, got[1].Asset)
	}

	if rows := store.AboveThreshold(5.0); len(rows) != 1 {
		t.Errorf("AboveThreshold(5.0) returned %d rows, want 1", len(rows))
	}
}

func TestStoreAboveThresholdInclusive(t *testing.T) {
	store := NewOpportunityStore()
	now := time.Now()

	store.Upsert(mintBonk, marketDomain.VenuePumpSwap, decimal.RequireFromString("1.00"), "p1", now)
	opp := store.Upsert(mintBonk, marketDomain.VenueDammV2, decimal.RequireFromString("1.05"), "p2", now)

	// Exactly at the threshold stays listed.
	if rows := store.AboveThreshold(opp.DivergencePercent); len(rows) != 1 {
		t.Errorf("AboveThreshold at exact divergence returned %d rows, want 1", len(rows))
	}
}
