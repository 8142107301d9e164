// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// OpportunityRow is one asset's cross-venue divergence line.
type OpportunityRow struct {
	Token         string
	PumpSwapPrice string // empty when the venue has no price yet
	DammV2Price   string
	DLMMPrice     string
	PriceDiff     string
	DivergencePct float64
}

// OpportunitiesComponent renders the divergence table. Each update
// replaces the whole table; the engine sends complete snapshots.
type OpportunitiesComponent struct {
	rows    []OpportunityRow
	offset  int
	maxRows int
}

// NewOpportunitiesComponent creates an opportunities component showing
// at most maxRows lines at a time.
func NewOpportunitiesComponent(maxRows int) *OpportunitiesComponent {
	return &OpportunitiesComponent{
		rows:    make([]OpportunityRow, 0),
		maxRows: maxRows,
	}
}

// SetRows replaces the table contents.
func (o *OpportunitiesComponent) SetRows(rows []OpportunityRow) {
	o.rows = rows
	if o.offset >= len(rows) {
		o.offset = 0
	}
}

// Clear empties the table.
func (o *OpportunitiesComponent) Clear() {
	o.rows = make([]OpportunityRow, 0)
	o.offset = 0
}

// ScrollUp moves the view window up one row.
func (o *OpportunitiesComponent) ScrollUp() {
	if o.offset > 0 {
		o.offset--
	}
}

// ScrollDown moves the view window down one row.
func (o *OpportunitiesComponent) ScrollDown() {
	if o.offset < len(o.rows)-1 {
		o.offset++
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// View renders the opportunities component.
func (o *OpportunitiesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	hotStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	if len(o.rows) == 0 {
		return headerStyle.Render("OPPORTUNITIES") + "\n\n" +
			dimStyle.Render("  No divergences above threshold yet...")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("OPPORTUNITIES (%d)", len(o.rows))))
	b.WriteString("\n")
	b.WriteString("┌──────────────┬────────────┬────────────┬────────────┬────────────┬─────────┐\n")
	b.WriteString("│    Token     │  PumpSwap  │  DAMM v2   │    DLMM    │    Diff    │  Div %  │\n")
	b.WriteString("├──────────────┼────────────┼────────────┼────────────┼────────────┼─────────┤\n")

	end := o.offset + o.maxRows
	if end > len(o.rows) {
		end = len(o.rows)
	}

	for _, row := range o.rows[o.offset:end] {
		pct := fmt.Sprintf("%6.2f%%", row.DivergencePct)
		b.WriteString(fmt.Sprintf("│ %-12s │ %10s │ %10s │ %10s │ %10s │ %s │\n",
			row.Token,
			orDash(row.PumpSwapPrice),
			orDash(row.DammV2Price),
			orDash(row.DLMMPrice),
			row.PriceDiff,
			hotStyle.Render(pct),
		))
	}

	b.WriteString("└──────────────┴────────────┴────────────┴────────────┴────────────┴─────────┘")

	if len(o.rows) > o.maxRows {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("  showing %d-%d of %d", o.offset+1, end, len(o.rows))))
	}

	return b.String()
}
