// Package ui provides the Bubble Tea TUI for the arbitrage bot.
package ui

import (
	"time"

	"github.com/solarb/solana-arb-bot/business/arbitrage/domain"
)

// Message types for TUI updates

// OpportunityTableMsg replaces the divergence table with a fresh
// snapshot, already filtered and sorted by the engine.
type OpportunityTableMsg struct {
	Opportunities []domain.Opportunity
}

// FeedStatusMsg is sent when a venue stream's connection state changes.
type FeedStatusMsg struct {
	Venue     string
	Connected bool
}

// TradeMsg is sent when a dispatched trade completes.
type TradeMsg struct {
	Token     string
	BuyVenue  string
	SellVenue string
	BuyPrice  string
	SellPrice string
	Amount    string
	Success   bool
	TxID      string
	ErrText   string
	At        time.Time
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// WelcomeCompleteMsg signals the welcome screen is done (timeout or keypress).
type WelcomeCompleteMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step    string // Current step name
	Status  string // "connecting", "connected", "failed"
	Message string // Optional message
}
