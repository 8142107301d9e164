package domain

import (
	"testing"

	"github.com/shopspring/decimal"

	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/token"
)

const testMint = token.Mint("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")

func testRequest() TradeRequest {
	amount := decimal.RequireFromString("1")
	return NewTradeRequest(testMint,
		SwapLeg{
			Side:      SideBuy,
			Venue:     marketDomain.VenueDammV2,
			Pool:      "damm-pool",
			Mint:      testMint,
			Price:     decimal.RequireFromString("0.5"),
			AmountSOL: amount,
		},
		SwapLeg{
			Side:      SideSell,
			Venue:     marketDomain.VenueDLMM,
			Pool:      "dlmm-pool",
			Mint:      testMint,
			Price:     decimal.RequireFromString("0.52"),
			AmountSOL: amount,
		},
		decimal.RequireFromString("0.5"),
	)
}

func TestTradeRequestValid(t *testing.T) {
	req := testRequest()
	if !req.Valid() {
		t.Fatal("well-formed request reported invalid")
	}

	noMint := req
	noMint.Mint = ""
	if noMint.Valid() {
		t.Error("request without mint reported valid")
	}

	noPool := req
	noPool.Sell.Pool = ""
	if noPool.Valid() {
		t.Error("request without sell pool reported valid")
	}

	sameVenue := req
	sameVenue.Sell.Venue = sameVenue.Buy.Venue
	if sameVenue.Valid() {
		t.Error("request with matching venues reported valid")
	}

	zeroAmount := req
	zeroAmount.Buy.AmountSOL = decimal.Zero
	if zeroAmount.Valid() {
		t.Error("request with zero amount reported valid")
	}

	badPrice := req
	badPrice.Buy.Price = decimal.Zero
	if badPrice.Valid() {
		t.Error("request with zero buy price reported valid")
	}
}

func TestMinTokensOut(t *testing.T) {
	// 1 SOL at 0.5 SOL/token buys 2 tokens; a 0.5% tolerance floors
	// that at 1.99.
	req := testRequest()
	got := req.MinTokensOut()
	if !got.Equal(decimal.RequireFromString("1.99")) {
		t.Errorf("MinTokensOut = %s, want 1.99", got)
	}

	req.Buy.Price = decimal.Zero
	if !req.MinTokensOut().IsZero() {
		t.Error("MinTokensOut with zero price should be zero")
	}
}

func TestMinSOLOut(t *testing.T) {
	// 2 tokens sold at 0.52 is 1.04 SOL; 0.5% tolerance floors that
	// at 1.0348.
	req := testRequest()
	got := req.MinSOLOut()
	if !got.Equal(decimal.RequireFromString("1.0348")) {
		t.Errorf("MinSOLOut = %s, want 1.0348", got)
	}
}

func TestNewTradeRequestAssignsID(t *testing.T) {
	a := testRequest()
	b := testRequest()
	if a.ID == b.ID {
		t.Error("consecutive requests share an ID")
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}
