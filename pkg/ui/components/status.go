// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// FeedStatus represents one venue stream's connection state.
type FeedStatus struct {
	Venue      string
	Connected  bool
	LastUpdate time.Time
}

// StatusComponent renders venue feed status.
type StatusComponent struct {
	feeds []FeedStatus
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{
		feeds: make([]FeedStatus, 0),
	}
}

// Update updates a feed's status.
func (s *StatusComponent) Update(status FeedStatus) {
	for i, feed := range s.feeds {
		if feed.Venue == status.Venue {
			s.feeds[i] = status
			return
		}
	}
	s.feeds = append(s.feeds, status)
}

// View renders the status component.
func (s *StatusComponent) View() string {
	if len(s.feeds) == 0 {
		return "No feeds"
	}

	var result string
	for _, feed := range s.feeds {
		status := "● Connected"
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
		if !feed.Connected {
			status = "○ Disconnected"
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
		}

		result += fmt.Sprintf("├─ %s: %s\n", feed.Venue, style.Render(status))
	}

	return result
}
