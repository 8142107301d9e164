// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TradeRow is one completed trade attempt.
type TradeRow struct {
	Time      string
	Token     string
	BuyVenue  string
	SellVenue string
	BuyPrice  string
	SellPrice string
	Amount    string
	Success   bool
	TxID      string
	ErrText   string
}

// TradesComponent renders the trade log, newest first.
type TradesComponent struct {
	rows    []TradeRow
	maxRows int
}

// NewTradesComponent creates a trade log keeping the last maxRows entries.
func NewTradesComponent(maxRows int) *TradesComponent {
	return &TradesComponent{
		rows:    make([]TradeRow, 0),
		maxRows: maxRows,
	}
}

// Add prepends a trade to the log.
func (t *TradesComponent) Add(row TradeRow) {
	t.rows = append([]TradeRow{row}, t.rows...)
	if len(t.rows) > t.maxRows {
		t.rows = t.rows[:t.maxRows]
	}
}

// Count returns the number of logged trades.
func (t *TradesComponent) Count() int {
	return len(t.rows)
}

// View renders the trades component.
func (t *TradesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var b strings.Builder
	b.WriteString(headerStyle.Render("TRADES"))
	b.WriteString("\n\n")

	if len(t.rows) == 0 {
		b.WriteString(dimStyle.Render("  No trades dispatched yet..."))
		return b.String()
	}

	for _, row := range t.rows {
		var status string
		if row.Success {
			status = okStyle.Render("✓ " + shortTx(row.TxID))
		} else {
			status = failStyle.Render("✗ " + row.ErrText)
		}

		b.WriteString(fmt.Sprintf("  [%s] %s  %s→%s  %s @ %s/%s  %s\n",
			row.Time,
			row.Token,
			row.BuyVenue,
			row.SellVenue,
			row.Amount,
			row.BuyPrice,
			row.SellPrice,
			status,
		))
	}

	return b.String()
}

func shortTx(sig string) string {
	if len(sig) <= 12 {
		return sig
	}
	return sig[:6] + ".." + sig[len(sig)-4:]
}
