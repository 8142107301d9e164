// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/solarb/solana-arb-bot/business/arbitrage/app"
	"github.com/solarb/solana-arb-bot/business/arbitrage/domain"
	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/token"
)

// ConsoleReporter implements app.Reporter for CLI output. It keeps the
// last rendered table and skips re-rendering when nothing visible
// changed, so a noisy feed doesn't scroll identical tables.
type ConsoleReporter struct {
	out      io.Writer
	registry *token.Registry

	mu        sync.Mutex
	lastKey   string
	feedState map[marketDomain.Venue]bool
}

// NewConsoleReporter creates a console reporter writing to stdout.
func NewConsoleReporter(registry *token.Registry) *ConsoleReporter {
	return &ConsoleReporter{
		out:       os.Stdout,
		registry:  registry,
		feedState: make(map[marketDomain.Venue]bool),
	}
}

// Start prints the banner.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Solana DEX Arbitrage Started")
	fmt.Fprintln(r.out, "============================")
	return nil
}

// PublishTable renders the divergence table. Rows arrive filtered and
// sorted by the engine; empty tables and tables whose visible rows did
// not change are skipped.
func (r *ConsoleReporter) PublishTable(opps []domain.Opportunity) {
	if len(opps) == 0 {
		return
	}

	key := snapshotKey(opps)

	r.mu.Lock()
	if key == r.lastKey {
		r.mu.Unlock()
		return
	}
	r.lastKey = key
	r.mu.Unlock()

	fmt.Fprint(r.out, r.renderTable(opps))
}

// snapshotKey flattens the rows into a comparable string. The render
// timestamp stays out of the key, so the clock ticking over never
// defeats the dedupe.
func snapshotKey(opps []domain.Opportunity) string {
	var b strings.Builder
	for _, opp := range opps {
		fmt.Fprintf(&b, "%s|%s|%s|%s|%.9f\n",
			opp.Asset,
			venuePrice(opp, marketDomain.VenuePumpSwap),
			venuePrice(opp, marketDomain.VenueDammV2),
			venuePrice(opp, marketDomain.VenueDLMM),
			opp.DivergencePercent,
		)
	}
	return b.String()
}

func (r *ConsoleReporter) renderTable(opps []domain.Opportunity) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n[%s] Price divergences\n", time.Now().Format("15:04:05"))
	b.WriteString("┌──────────────┬──────────────┬──────────────┬──────────────┬─────────┐\n")
	b.WriteString("│    Token     │   PumpSwap   │   DAMM v2    │     DLMM     │  Div %  │\n")
	b.WriteString("├──────────────┼──────────────┼──────────────┼──────────────┼─────────┤\n")

	for _, opp := range opps {
		name := opp.Asset.Short()
		if r.registry != nil {
			name = r.registry.DisplayName(opp.Asset)
		}
		fmt.Fprintf(&b, "│ %-12s │ %12s │ %12s │ %12s │ %6.2f%% │\n",
			name,
			venuePrice(opp, marketDomain.VenuePumpSwap),
			venuePrice(opp, marketDomain.VenueDammV2),
			venuePrice(opp, marketDomain.VenueDLMM),
			opp.DivergencePercent,
		)
	}

	b.WriteString("└──────────────┴──────────────┴──────────────┴──────────────┴─────────┘\n")
	fmt.Fprintf(&b, "Total opportunities: %d\n", len(opps))

	return b.String()
}

func venuePrice(opp domain.Opportunity, venue marketDomain.Venue) string {
	vp, ok := opp.Venues[venue]
	if !ok {
		return "-"
	}
	return vp.Price.StringFixed(9)
}

// UpdateFeedStatus prints venue connection changes. Repeated identical
// states stay quiet.
func (r *ConsoleReporter) UpdateFeedStatus(venue marketDomain.Venue, connected bool) {
	r.mu.Lock()
	prev, seen := r.feedState[venue]
	r.feedState[venue] = connected
	r.mu.Unlock()

	if seen && prev == connected {
		return
	}

	status := "disconnected"
	if connected {
		status = "connected"
	}
	fmt.Fprintf(r.out, "[%s] %s: %s\n", time.Now().Format("15:04:05"), venue, status)
}

// ReportTrade prints a dispatched trade's outcome.
func (r *ConsoleReporter) ReportTrade(order app.TradeOrder, outcome app.TradeOutcome) {
	name := order.Asset.Short()
	if r.registry != nil {
		name = r.registry.DisplayName(order.Asset)
	}

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================")
	fmt.Fprintf(r.out, "TRADE  %s  buy %s @ %s  →  sell %s @ %s\n",
		name,
		order.BuyVenue, order.BuyPrice.StringFixed(9),
		order.SellVenue, order.SellPrice.StringFixed(9),
	)
	fmt.Fprintf(r.out, "Amount: %s SOL  Slippage: %s%%\n",
		order.Amount.String(), order.SlippagePercent.String())
	if outcome.Success {
		fmt.Fprintf(r.out, "Result: OK  tx=%s\n", outcome.TxID)
	} else {
		fmt.Fprintf(r.out, "Result: FAILED  %v\n", outcome.Err)
	}
	fmt.Fprintln(r.out, "================================================================")
}

// Stop prints the shutdown line.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Solana DEX Arbitrage Stopped")
	return nil
}
