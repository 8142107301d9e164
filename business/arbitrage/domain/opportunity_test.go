package domain

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/token"
)

const testMint = token.Mint("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")

func venuePrices(prices map[marketDomain.Venue]string) map[marketDomain.Venue]VenuePrice {
	out := make(map[marketDomain.Venue]VenuePrice, len(prices))
	for v, p := range prices {
		out[v] = VenuePrice{Price: decimal.RequireFromString(p), UpdatedAt: time.Now()}
	}
	return out
}

func TestComputeDivergence(t *testing.T) {
	tests := []struct {
		name        string
		prices      map[marketDomain.Venue]string
		wantDefined bool
		wantPercent float64
	}{
		{
			name:        "single venue has no divergence",
			prices:      map[marketDomain.Venue]string{marketDomain.VenuePumpSwap: "1.00"},
			wantDefined: false,
		},
		{
			name: "two venues",
			prices: map[marketDomain.Venue]string{
				marketDomain.VenuePumpSwap: "1.00",
				marketDomain.VenueDammV2:   "1.05",
			},
			wantDefined: true,
			// 0.05 / 1.025 * 100
			wantPercent: 4.878048780487805,
		},
		{
			name: "three venues uses extremes",
			prices: map[marketDomain.Venue]string{
				marketDomain.VenuePumpSwap: "1.00",
				marketDomain.VenueDammV2:   "1.02",
				marketDomain.VenueDLMM:     "1.05",
			},
			wantDefined: true,
			wantPercent: 4.878048780487805,
		},
		{
			name: "equal prices diverge zero",
			prices: map[marketDomain.Venue]string{
				marketDomain.VenuePumpSwap: "0.005",
				marketDomain.VenueDammV2:   "0.005",
			},
			wantDefined: true,
			wantPercent: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opp := Compute(testMint, venuePrices(tt.prices), time.Now())

			if opp.DivergenceDefined != tt.wantDefined {
				t.Fatalf("DivergenceDefined = %v, want %v", opp.DivergenceDefined, tt.wantDefined)
			}
			if !tt.wantDefined {
				return
			}
			if math.Abs(opp.DivergencePercent-tt.wantPercent) > 1e-9 {
				t.Errorf("DivergencePercent = %v, want %v", opp.DivergencePercent, tt.wantPercent)
			}
		})
	}
}

func TestSpread(t *testing.T) {
	opp := Compute(testMint, venuePrices(map[marketDomain.Venue]string{
		marketDomain.VenuePumpSwap: "1.00",
		marketDomain.VenueDammV2:   "1.02",
		marketDomain.VenueDLMM:     "1.05",
	}), time.Now())

	buy, sell, ok := opp.Spread()
	if !ok {
		t.Fatal("Spread() ok = false, want true")
	}
	if buy != marketDomain.VenuePumpSwap {
		t.Errorf("buy venue = %s, want %s", buy, marketDomain.VenuePumpSwap)
	}
	if sell != marketDomain.VenueDLMM {
		t.Errorf("sell venue = %s, want %s", sell, marketDomain.VenueDLMM)
	}
}

func TestSpreadUndefined(t *testing.T) {
	opp := Compute(testMint, venuePrices(map[marketDomain.Venue]string{
		marketDomain.VenuePumpSwap: "1.00",
	}), time.Now())

	if _, _, ok := opp.Spread(); ok {
		t.Error("Spread() ok = true for single venue, want false")
	}
}

func TestCloneIsolation(t *testing.T) {
	opp := Compute(testMint, venuePrices(map[marketDomain.Venue]string{
		marketDomain.VenuePumpSwap: "1.00",
		marketDomain.VenueDammV2:   "1.05",
	}), time.Now())

	clone := opp.Clone()
	clone.Venues[marketDomain.VenueDLMM] = VenuePrice{Price: decimal.NewFromInt(9)}

	if _, ok := opp.Venues[marketDomain.VenueDLMM]; ok {
		t.Error("mutating the clone leaked into the original")
	}
}

func TestMaterialChange(t *testing.T) {
	base := Compute(testMint, venuePrices(map[marketDomain.Venue]string{
		marketDomain.VenuePumpSwap: "1.00",
		marketDomain.VenueDammV2:   "1.05",
	}), time.Now())

	t.Run("identical snapshot is not a change", func(t *testing.T) {
		if MaterialChange(base, base.Clone()) {
			t.Error("MaterialChange = true for identical snapshots")
		}
	})

	t.Run("price move is a change", func(t *testing.T) {
		next := Compute(testMint, venuePrices(map[marketDomain.Venue]string{
			marketDomain.VenuePumpSwap: "1.01",
			marketDomain.VenueDammV2:   "1.05",
		}), time.Now())
		if !MaterialChange(base, next) {
			t.Error("MaterialChange = false after a price move")
		}
	})

	t.Run("new venue is a change", func(t *testing.T) {
		next := Compute(testMint, venuePrices(map[marketDomain.Venue]string{
			marketDomain.VenuePumpSwap: "1.00",
			marketDomain.VenueDammV2:   "1.05",
			marketDomain.VenueDLMM:     "1.02",
		}), time.Now())
		if !MaterialChange(base, next) {
			t.Error("MaterialChange = false after venue coverage grew")
		}
	})

	t.Run("losing divergence is a change", func(t *testing.T) {
		single := Compute(testMint, venuePrices(map[marketDomain.Venue]string{
			marketDomain.VenuePumpSwap: "1.00",
		}), time.Now())
		if !MaterialChange(single, base) {
			t.Error("MaterialChange = false when divergence became defined")
		}
	})
}
