package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/solarb/solana-arb-bot/business/arbitrage/domain"
	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/token"
)

// TradeOrder describes the trade the engine wants executed: buy on the
// cheap venue, sell on the expensive one.
type TradeOrder struct {
	Asset           token.Mint
	BuyVenue        marketDomain.Venue
	SellVenue       marketDomain.Venue
	BuyPool         string
	SellPool        string
	BuyPrice        decimal.Decimal
	SellPrice       decimal.Decimal
	Amount          decimal.Decimal
	SlippagePercent decimal.Decimal
}

// TradeOutcome is the terminal result of a dispatched trade.
type TradeOutcome struct {
	Success bool
	TxID    string
	Err     error
}

// TradeDispatcher hands trades to the execution context. Dispatch is
// asynchronous; done is invoked exactly once, on success or failure.
type TradeDispatcher interface {
	Dispatch(ctx context.Context, order TradeOrder, done func(TradeOutcome))
}

// Reporter receives the engine's output for display or publication.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// PublishTable delivers the current opportunity table, already
	// filtered to the divergence threshold and sorted descending.
	PublishTable(opps []domain.Opportunity)

	// UpdateFeedStatus updates a venue's connection indicator.
	UpdateFeedStatus(venue marketDomain.Venue, connected bool)

	// ReportTrade records a dispatched trade's outcome.
	ReportTrade(order TradeOrder, outcome TradeOutcome)

	// Stop gracefully shuts down the reporter.
	Stop() error
}
