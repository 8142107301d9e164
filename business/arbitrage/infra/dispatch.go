// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"

	"github.com/solarb/solana-arb-bot/business/arbitrage/app"
	executionApp "github.com/solarb/solana-arb-bot/business/execution/app"
	executionDomain "github.com/solarb/solana-arb-bot/business/execution/domain"
)

// ExecutionDispatcher adapts the execution context's dispatcher to the
// arbitrage TradeDispatcher port.
type ExecutionDispatcher struct {
	dispatcher *executionApp.Dispatcher
}

// NewExecutionDispatcher wraps the execution dispatcher.
func NewExecutionDispatcher(dispatcher *executionApp.Dispatcher) *ExecutionDispatcher {
	return &ExecutionDispatcher{dispatcher: dispatcher}
}

// Dispatch converts the order into a two-leg trade request and submits
// it. done fires exactly once with the terminal outcome.
func (d *ExecutionDispatcher) Dispatch(ctx context.Context, order app.TradeOrder, done func(app.TradeOutcome)) {
	req := executionDomain.NewTradeRequest(
		order.Asset,
		executionDomain.SwapLeg{
			Side:      executionDomain.SideBuy,
			Venue:     order.BuyVenue,
			Pool:      order.BuyPool,
			Mint:      order.Asset,
			Price:     order.BuyPrice,
			AmountSOL: order.Amount,
		},
		executionDomain.SwapLeg{
			Side:      executionDomain.SideSell,
			Venue:     order.SellVenue,
			Pool:      order.SellPool,
			Mint:      order.Asset,
			Price:     order.SellPrice,
			AmountSOL: order.Amount,
		},
		order.SlippagePercent,
	)

	d.dispatcher.Submit(ctx, req, func(result executionDomain.TradeResult) {
		outcome := app.TradeOutcome{
			Success: result.Success,
			Err:     result.Err,
		}
		// Prefer the sell signature; it closes the round trip.
		if result.SellSig != "" {
			outcome.TxID = result.SellSig
		} else {
			outcome.TxID = result.BuySig
		}
		done(outcome)
	})
}
