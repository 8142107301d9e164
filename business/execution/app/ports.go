// Package app contains application services and port definitions for the execution context.
package app

import (
	"context"

	"github.com/solarb/solana-arb-bot/business/execution/domain"
	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
)

// SwapExecutor performs a single swap leg on one venue and returns the
// transaction signature.
type SwapExecutor interface {
	// Venue identifies which venue this executor trades on.
	Venue() marketDomain.Venue

	// Execute submits the swap and returns its signature. The request
	// carries the slippage bounds; executors never retry.
	Execute(ctx context.Context, req domain.TradeRequest, leg domain.SwapLeg) (string, error)
}
