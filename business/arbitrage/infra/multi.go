// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"errors"

	"github.com/solarb/solana-arb-bot/business/arbitrage/app"
	"github.com/solarb/solana-arb-bot/business/arbitrage/domain"
	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
)

// MultiReporter fans engine output out to several reporters, e.g. the
// console plus a Redis mirror.
type MultiReporter struct {
	reporters []app.Reporter
}

// NewMultiReporter wraps the given reporters. A single reporter is
// returned unwrapped.
func NewMultiReporter(reporters ...app.Reporter) app.Reporter {
	if len(reporters) == 1 {
		return reporters[0]
	}
	return &MultiReporter{reporters: reporters}
}

// Start starts every reporter; the first failure aborts.
func (m *MultiReporter) Start(ctx context.Context) error {
	for _, r := range m.reporters {
		if err := r.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// PublishTable forwards the table to every reporter.
func (m *MultiReporter) PublishTable(opps []domain.Opportunity) {
	for _, r := range m.reporters {
		r.PublishTable(opps)
	}
}

// UpdateFeedStatus forwards venue state to every reporter.
func (m *MultiReporter) UpdateFeedStatus(venue marketDomain.Venue, connected bool) {
	for _, r := range m.reporters {
		r.UpdateFeedStatus(venue, connected)
	}
}

// ReportTrade forwards the trade to every reporter.
func (m *MultiReporter) ReportTrade(order app.TradeOrder, outcome app.TradeOutcome) {
	for _, r := range m.reporters {
		r.ReportTrade(order, outcome)
	}
}

// Stop stops every reporter, collecting errors.
func (m *MultiReporter) Stop() error {
	var errs []error
	for _, r := range m.reporters {
		if err := r.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
