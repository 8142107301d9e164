package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solarb/solana-arb-bot/internal/token"
)

const testMint = token.Mint("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")

func TestParseVenue(t *testing.T) {
	tests := []struct {
		input   string
		want    Venue
		wantErr bool
	}{
		{"PumpSwap", VenuePumpSwap, false},
		{"DammV2", VenueDammV2, false},
		{"DLMM", VenueDLMM, false},
		{"Raydium", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVenue(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVenue(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseVenue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPumpSwapTradeNormalize(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		trade     PumpSwapTrade
		wantOK    bool
		wantPrice string
	}{
		{
			name: "price is sol over tokens",
			trade: PumpSwapTrade{
				Pool:        "pool-1",
				Mint:        testMint,
				SolAmount:   decimal.RequireFromString("1.5"),
				TokenAmount: decimal.RequireFromString("3000"),
			},
			wantOK:    true,
			wantPrice: "0.0005",
		},
		{
			name: "zero token amount rejected",
			trade: PumpSwapTrade{
				Mint:        testMint,
				SolAmount:   decimal.RequireFromString("1"),
				TokenAmount: decimal.Zero,
			},
			wantOK: false,
		},
		{
			name: "missing mint rejected",
			trade: PumpSwapTrade{
				SolAmount:   decimal.RequireFromString("1"),
				TokenAmount: decimal.RequireFromString("2"),
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.trade.Normalize(now)
			if ok != tt.wantOK {
				t.Fatalf("Normalize ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Venue != VenuePumpSwap {
				t.Errorf("venue = %s, want PumpSwap", got.Venue)
			}
			if !got.Price.Equal(decimal.RequireFromString(tt.wantPrice)) {
				t.Errorf("price = %s, want %s", got.Price, tt.wantPrice)
			}
			if !got.Valid() {
				t.Error("normalized update is not valid")
			}
		})
	}
}

func TestSwapNormalizeRejectsNonPositivePrice(t *testing.T) {
	now := time.Now()

	if _, ok := (DammV2Swap{Mint: testMint, Price: decimal.Zero}).Normalize(now); ok {
		t.Error("DammV2Swap with zero price normalized")
	}
	if _, ok := (DLMMSwap{Mint: testMint, Price: decimal.Zero}).Normalize(now); ok {
		t.Error("DLMMSwap with zero price normalized")
	}
}

func TestPriceUpdateValid(t *testing.T) {
	good := PriceUpdate{
		Asset: testMint,
		Venue: VenueDLMM,
		Price: decimal.RequireFromString("0.001"),
	}
	if !good.Valid() {
		t.Error("valid update reported invalid")
	}

	noAsset := good
	noAsset.Asset = ""
	if noAsset.Valid() {
		t.Error("update without asset reported valid")
	}

	badVenue := good
	badVenue.Venue = "Orca"
	if badVenue.Valid() {
		t.Error("update with unknown venue reported valid")
	}

	negative := good
	negative.Price = decimal.RequireFromString("-1")
	if negative.Valid() {
		t.Error("update with negative price reported valid")
	}
}
