package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solarb/solana-arb-bot/business/execution/domain"
	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/apperror"
	"github.com/solarb/solana-arb-bot/internal/logger"
	"github.com/solarb/solana-arb-bot/internal/token"
)

const testMint = token.Mint("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")

type fakeExecutor struct {
	venue marketDomain.Venue
	sig   string
	err   error

	mu    sync.Mutex
	calls []domain.Side
}

func (f *fakeExecutor) Venue() marketDomain.Venue { return f.venue }

func (f *fakeExecutor) Execute(_ context.Context, _ domain.TradeRequest, leg domain.SwapLeg) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, leg.Side)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.sig, nil
}

func (f *fakeExecutor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testRequest() domain.TradeRequest {
	amount := decimal.RequireFromString("0.01")
	return domain.NewTradeRequest(testMint,
		domain.SwapLeg{
			Side:      domain.SideBuy,
			Venue:     marketDomain.VenueDammV2,
			Pool:      "damm-pool",
			Mint:      testMint,
			Price:     decimal.RequireFromString("0.001"),
			AmountSOL: amount,
		},
		domain.SwapLeg{
			Side:      domain.SideSell,
			Venue:     marketDomain.VenueDLMM,
			Pool:      "dlmm-pool",
			Mint:      testMint,
			Price:     decimal.RequireFromString("0.00105"),
			AmountSOL: amount,
		},
		decimal.RequireFromString("0.5"),
	)
}

func submitAndWait(t *testing.T, d *Dispatcher, req domain.TradeRequest) domain.TradeResult {
	t.Helper()

	results := make(chan domain.TradeResult, 1)
	d.Submit(context.Background(), req, func(r domain.TradeResult) {
		results <- r
	})

	select {
	case r := <-results:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("trade result never arrived")
		return domain.TradeResult{}
	}
}

func newTestDispatcher(t *testing.T, executors ...SwapExecutor) *Dispatcher {
	t.Helper()

	log := logger.New(io.Discard, logger.LevelInfo, "test", nil)
	d, err := NewDispatcher(log, executors...)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	return d
}

func TestDispatcherExecutesBothLegs(t *testing.T) {
	buy := &fakeExecutor{venue: marketDomain.VenueDammV2, sig: "buy-sig"}
	sell := &fakeExecutor{venue: marketDomain.VenueDLMM, sig: "sell-sig"}
	d := newTestDispatcher(t, buy, sell)

	result := submitAndWait(t, d, testRequest())

	if !result.Success {
		t.Fatalf("trade failed: %v", result.Err)
	}
	if result.BuySig != "buy-sig" || result.SellSig != "sell-sig" {
		t.Errorf("signatures = %q/%q, want buy-sig/sell-sig", result.BuySig, result.SellSig)
	}
	if buy.calls[0] != domain.SideBuy || sell.calls[0] != domain.SideSell {
		t.Errorf("leg sides = %v/%v", buy.calls, sell.calls)
	}
	if result.CompletedAt.IsZero() {
		t.Error("CompletedAt not set")
	}
}

func TestDispatcherBuyFailureSkipsSell(t *testing.T) {
	buyErr := errors.New("blockhash expired")
	buy := &fakeExecutor{venue: marketDomain.VenueDammV2, err: buyErr}
	sell := &fakeExecutor{venue: marketDomain.VenueDLMM, sig: "sell-sig"}
	d := newTestDispatcher(t, buy, sell)

	result := submitAndWait(t, d, testRequest())

	if result.Success {
		t.Fatal("trade reported success after buy failure")
	}
	if !errors.Is(result.Err, buyErr) {
		t.Errorf("result error = %v, want %v", result.Err, buyErr)
	}
	if sell.callCount() != 0 {
		t.Error("sell leg ran after buy failure")
	}
}

func TestDispatcherSellFailureKeepsBuySig(t *testing.T) {
	buy := &fakeExecutor{venue: marketDomain.VenueDammV2, sig: "buy-sig"}
	sell := &fakeExecutor{venue: marketDomain.VenueDLMM, err: errors.New("slippage exceeded")}
	d := newTestDispatcher(t, buy, sell)

	result := submitAndWait(t, d, testRequest())

	if result.Success {
		t.Fatal("trade reported success after sell failure")
	}
	if result.BuySig != "buy-sig" {
		t.Errorf("buy signature = %q, want buy-sig", result.BuySig)
	}
	if result.SellSig != "" {
		t.Errorf("sell signature = %q, want empty", result.SellSig)
	}
}

func TestDispatcherRejectsInvalidRequest(t *testing.T) {
	buy := &fakeExecutor{venue: marketDomain.VenueDammV2, sig: "buy-sig"}
	sell := &fakeExecutor{venue: marketDomain.VenueDLMM, sig: "sell-sig"}
	d := newTestDispatcher(t, buy, sell)

	req := testRequest()
	req.Mint = ""
	result := submitAndWait(t, d, req)

	if result.Success {
		t.Fatal("invalid request reported success")
	}
	if apperror.GetCode(result.Err) != apperror.CodeTradeRejected {
		t.Errorf("error code = %s, want %s", apperror.GetCode(result.Err), apperror.CodeTradeRejected)
	}
	if buy.callCount() != 0 || sell.callCount() != 0 {
		t.Error("executors ran for an invalid request")
	}
}

func TestDispatcherRejectsUnknownVenue(t *testing.T) {
	// Only the buy venue has an executor.
	buy := &fakeExecutor{venue: marketDomain.VenueDammV2, sig: "buy-sig"}
	d := newTestDispatcher(t, buy)

	result := submitAndWait(t, d, testRequest())

	if result.Success {
		t.Fatal("trade without a sell executor reported success")
	}
	if apperror.GetCode(result.Err) != apperror.CodeTradeRejected {
		t.Errorf("error code = %s, want %s", apperror.GetCode(result.Err), apperror.CodeTradeRejected)
	}
	if buy.callCount() != 0 {
		t.Error("buy leg ran before the sell executor was resolved")
	}
}
