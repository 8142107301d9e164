package infra

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solarb/solana-arb-bot/business/arbitrage/domain"
	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/token"
)

func twoVenueOpportunity(pump, damm string, at time.Time) domain.Opportunity {
	return domain.Compute(token.MintBonk, map[marketDomain.Venue]domain.VenuePrice{
		marketDomain.VenuePumpSwap: {Price: decimal.RequireFromString(pump), PoolID: "pump-pool", UpdatedAt: at},
		marketDomain.VenueDammV2:   {Price: decimal.RequireFromString(damm), PoolID: "damm-pool", UpdatedAt: at},
	}, at)
}

func newTestConsoleReporter(buf *bytes.Buffer) *ConsoleReporter {
	r := NewConsoleReporter(nil)
	r.out = buf
	return r
}

func TestConsoleReporterSkipsEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	r := newTestConsoleReporter(&buf)

	r.PublishTable(nil)
	r.PublishTable([]domain.Opportunity{})

	if buf.Len() != 0 {
		t.Errorf("empty table rendered %d bytes, want 0", buf.Len())
	}
}

func TestConsoleReporterDedupesUnchangedRows(t *testing.T) {
	var buf bytes.Buffer
	r := newTestConsoleReporter(&buf)

	r.PublishTable([]domain.Opportunity{twoVenueOpportunity("1.50", "1.00", time.Now())})
	size := buf.Len()
	if size == 0 {
		t.Fatal("first table did not render")
	}

	// Same prices observed again later; only the wall clock moved.
	later := time.Now().Add(2 * time.Second)
	r.PublishTable([]domain.Opportunity{twoVenueOpportunity("1.50", "1.00", later)})

	if buf.Len() != size {
		t.Errorf("unchanged table re-rendered: output grew from %d to %d bytes", size, buf.Len())
	}
}

func TestConsoleReporterRendersOnPriceChange(t *testing.T) {
	var buf bytes.Buffer
	r := newTestConsoleReporter(&buf)

	r.PublishTable([]domain.Opportunity{twoVenueOpportunity("1.50", "1.00", time.Now())})
	size := buf.Len()
	if size == 0 {
		t.Fatal("first table did not render")
	}

	r.PublishTable([]domain.Opportunity{twoVenueOpportunity("1.60", "1.00", time.Now())})

	if buf.Len() <= size {
		t.Error("price change did not render a new table")
	}
}
