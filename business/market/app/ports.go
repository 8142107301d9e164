// Package app contains application services and port definitions for the market context.
package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/solarb/solana-arb-bot/business/market/domain"
)

// VenueListener is implemented by each venue feed adapter.
type VenueListener interface {
	// Start connects the feed. Reconnection is handled internally.
	Start(ctx context.Context) error

	// Updates returns the stream of normalized price updates.
	Updates() <-chan domain.PriceUpdate

	// Venue identifies the venue this listener feeds.
	Venue() domain.Venue

	// IsConnected reports whether the feed is currently up.
	IsConnected() bool

	// Close shuts the feed down.
	Close() error
}

// PoolQuoter serves on-demand pool prices, bypassing the event stream.
type PoolQuoter interface {
	PoolPrice(ctx context.Context, poolID string) (decimal.Decimal, error)
}

// UpdateSink consumes normalized price updates. Each venue's updates
// are delivered from a dedicated goroutine, so implementations must be
// safe for concurrent calls.
type UpdateSink func(ctx context.Context, update domain.PriceUpdate)
