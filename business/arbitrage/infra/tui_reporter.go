// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"time"

	"github.com/solarb/solana-arb-bot/business/arbitrage/app"
	"github.com/solarb/solana-arb-bot/business/arbitrage/domain"
	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/token"
	"github.com/solarb/solana-arb-bot/pkg/ui"
)

// TUIReporter implements app.Reporter over the Bubble Tea program. The
// program itself is owned and run by main; this adapter only sends
// messages to it.
type TUIReporter struct {
	registry *token.Registry
}

// NewTUIReporter creates a TUI reporter.
func NewTUIReporter(registry *token.Registry) *TUIReporter {
	return &TUIReporter{registry: registry}
}

// Start is a no-op; the program lifecycle belongs to main.
func (r *TUIReporter) Start(ctx context.Context) error {
	return nil
}

// PublishTable pushes the divergence table snapshot to the TUI.
func (r *TUIReporter) PublishTable(opps []domain.Opportunity) {
	ui.Send(ui.OpportunityTableMsg{Opportunities: opps})
}

// UpdateFeedStatus pushes venue connection state to the TUI.
func (r *TUIReporter) UpdateFeedStatus(venue marketDomain.Venue, connected bool) {
	ui.Send(ui.FeedStatusMsg{
		Venue:     venue.String(),
		Connected: connected,
	})
}

// ReportTrade pushes a completed trade to the TUI trade log.
func (r *TUIReporter) ReportTrade(order app.TradeOrder, outcome app.TradeOutcome) {
	name := order.Asset.Short()
	if r.registry != nil {
		name = r.registry.DisplayName(order.Asset)
	}

	msg := ui.TradeMsg{
		Token:     name,
		BuyVenue:  order.BuyVenue.String(),
		SellVenue: order.SellVenue.String(),
		BuyPrice:  order.BuyPrice.StringFixed(9),
		SellPrice: order.SellPrice.StringFixed(9),
		Amount:    order.Amount.String(),
		Success:   outcome.Success,
		TxID:      outcome.TxID,
		At:        time.Now(),
	}
	if outcome.Err != nil {
		msg.ErrText = outcome.Err.Error()
	}
	ui.Send(msg)
}

// Stop is a no-op; the program lifecycle belongs to main.
func (r *TUIReporter) Stop() error {
	return nil
}
