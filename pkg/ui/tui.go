// Package ui provides the Bubble Tea TUI for the arbitrage bot.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/solarb/solana-arb-bot/business/arbitrage/domain"
	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/pkg/ui/components"
)

// ConnectionInfo holds a venue feed's connection state.
type ConnectionInfo struct {
	Connected bool
	LastSeen  time.Time
}

// StartupStep represents a step in the startup process.
type StartupStep struct {
	Name   string
	Status string // "pending", "connecting", "connected", "failed"
}

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseStartup   Phase = "startup"   // Loading/connecting
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	opportunities *components.OpportunitiesComponent
	trades        *components.TradesComponent
	stats         *components.StatsComponent
	feeds         *components.StatusComponent
	keys          KeyMap

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// State
	ready           bool
	quitting        bool
	width           int
	height          int
	connectionState map[string]*ConnectionInfo
	lastUpdate      time.Time
	runStats        components.Stats
	errors          []ErrorEntry // Persistent error panel (last 3)
	logs            []string     // Recent log messages

	// Startup state
	startupComplete bool
	startupSteps    map[string]*StartupStep
	startupTime     time.Time
}

// New creates a new TUI model.
func New() Model {
	now := time.Now()

	conns := make(map[string]*ConnectionInfo)
	steps := map[string]*StartupStep{
		"config": {Name: "Loading configuration", Status: "pending"},
		"solana": {Name: "Connecting to Solana RPC", Status: "pending"},
	}
	for _, v := range marketDomain.AllVenues {
		name := v.String()
		conns[name] = &ConnectionInfo{Connected: false}
		steps[strings.ToLower(name)] = &StartupStep{
			Name:   "Subscribing to " + name,
			Status: "pending",
		}
	}

	return Model{
		opportunities:   components.NewOpportunitiesComponent(20),
		trades:          components.NewTradesComponent(8),
		stats:           components.NewStatsComponent(),
		feeds:           components.NewStatusComponent(),
		keys:            DefaultKeyMap(),
		phase:           PhaseWelcome,
		welcomeStart:    now,
		connectionState: conns,
		logs:            make([]string, 0, 10),
		errors:          make([]ErrorEntry, 0, 3),
		startupSteps:    steps,
		startupTime:     now,
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Always allow quit
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome phase, any other key skips to startup
		if m.phase == PhaseWelcome {
			m.phase = PhaseStartup
			m.startupTime = time.Now()
			// Trigger callback directly (don't use Send() from within Update)
			if OnStartModules != nil {
				go OnStartModules()
			}
			return m, tickCmd()
		}
		// Normal key handling
		switch {
		case key.Matches(msg, m.keys.Clear):
			m.opportunities.Clear()
			return m, nil
		case key.Matches(msg, m.keys.ScrollUp):
			m.opportunities.ScrollUp()
			return m, nil
		case key.Matches(msg, m.keys.ScrollDown):
			m.opportunities.ScrollDown()
			return m, nil
		case key.Matches(msg, m.keys.ClearErrors):
			m.errors = make([]ErrorEntry, 0, 3)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		// Check if welcome timeout has elapsed
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.phase = PhaseStartup
			m.startupTime = time.Now()
			// Trigger callback directly (don't use Send() from within Update)
			if OnStartModules != nil {
				go OnStartModules()
			}
		}
		return m, tickCmd()

	case OpportunityTableMsg:
		m.opportunities.SetRows(buildOpportunityRows(msg.Opportunities))
		m.runStats.EventsProcessed++
		m.runStats.Opportunities = int64(len(msg.Opportunities))
		m.stats.Update(m.runStats)
		m.lastUpdate = time.Now()

	case TradeMsg:
		at := msg.At
		if at.IsZero() {
			at = time.Now()
		}
		m.trades.Add(components.TradeRow{
			Time:      at.Format("15:04:05"),
			Token:     msg.Token,
			BuyVenue:  msg.BuyVenue,
			SellVenue: msg.SellVenue,
			BuyPrice:  msg.BuyPrice,
			SellPrice: msg.SellPrice,
			Amount:    msg.Amount,
			Success:   msg.Success,
			TxID:      msg.TxID,
			ErrText:   msg.ErrText,
		})
		m.runStats.TradesAttempted++
		if msg.Success {
			m.runStats.TradesSucceeded++
		}
		m.stats.Update(m.runStats)
		m.lastUpdate = time.Now()

	case FeedStatusMsg:
		m.connectionState[msg.Venue] = &ConnectionInfo{
			Connected: msg.Connected,
			LastSeen:  time.Now(),
		}
		m.feeds.Update(components.FeedStatus{
			Venue:      msg.Venue,
			Connected:  msg.Connected,
			LastUpdate: time.Now(),
		})
		m.lastUpdate = time.Now()

		// Update startup steps based on connection
		stepKey := strings.ToLower(msg.Venue)
		if step, ok := m.startupSteps[stepKey]; ok {
			if msg.Connected {
				step.Status = "connected"
			} else {
				step.Status = "connecting"
			}
		}
		// Config and RPC are done once any venue stream is up
		if msg.Connected {
			if m.startupSteps["config"] != nil {
				m.startupSteps["config"].Status = "done"
			}
			if m.startupSteps["solana"] != nil {
				m.startupSteps["solana"].Status = "done"
			}
		}

	case ErrorMsg:
		m.logs = addLog(m.logs, "error", msg.Error.Error())
		m.runStats.Errors++
		m.stats.Update(m.runStats)
		// Add to persistent errors (keep last 3)
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)

	case StartupMsg:
		if step, ok := m.startupSteps[msg.Step]; ok {
			step.Status = msg.Status
		}
		// Check if all steps are complete
		allConnected := true
		for _, step := range m.startupSteps {
			if step.Status != "connected" && step.Status != "done" {
				allConnected = false
				break
			}
		}
		if allConnected {
			m.startupComplete = true
		}
	}

	return m, nil
}

// buildOpportunityRows converts engine snapshots to display rows.
func buildOpportunityRows(opps []domain.Opportunity) []components.OpportunityRow {
	rows := make([]components.OpportunityRow, 0, len(opps))
	for _, opp := range opps {
		row := components.OpportunityRow{
			Token:         opp.Asset.Short(),
			PriceDiff:     opp.PriceDiff.StringFixed(9),
			DivergencePct: opp.DivergencePercent,
		}
		if vp, ok := opp.Venues[marketDomain.VenuePumpSwap]; ok {
			row.PumpSwapPrice = vp.Price.StringFixed(9)
		}
		if vp, ok := opp.Venues[marketDomain.VenueDammV2]; ok {
			row.DammV2Price = vp.Price.StringFixed(9)
		}
		if vp, ok := opp.Venues[marketDomain.VenueDLMM]; ok {
			row.DLMMPrice = vp.Price.StringFixed(9)
		}
		rows = append(rows, row)
	}
	return rows
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logLine := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)
	logs = append(logs, logLine)
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	// Phase-based rendering
	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		// Show startup until a feed connects or all steps finish
		if !m.anyFeedConnected() && !m.startupComplete {
			return m.renderStartupScreen()
		}
		// Transition to dashboard when ready
		m.phase = PhaseDashboard
		fallthrough
	case PhaseDashboard:
		// Continue to main dashboard
	}

	var b strings.Builder

	// Title
	title := TitleStyle.Render(" ◎ Solana DEX Arbitrage ")
	b.WriteString(title)
	b.WriteString("\n\n")

	// Status bar and run counters
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.stats.View())
	b.WriteString("\n\n")

	// Main content: opportunities on left, trades + feeds + logs on right
	leftCol := m.opportunities.View()

	var rightContent strings.Builder
	rightContent.WriteString(m.trades.View())
	rightContent.WriteString("\n\n")
	rightContent.WriteString(m.feeds.View())
	rightContent.WriteString("\n")
	rightContent.WriteString(m.renderLogs())
	rightCol := rightContent.String()

	// Side by side if enough width
	if m.width > 120 {
		left := BoxStyle.Width(2*m.width/3 - 2).Render(leftCol)
		right := BoxStyle.Width(m.width/3 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(m.width - 4).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(m.width - 4).Render(rightCol))
	}

	b.WriteString("\n\n")

	// Persistent error panel (show last 3 errors)
	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
		mutedError := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(mutedError.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(mutedError.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Help
	b.WriteString(HelpStyle.Render("q: quit • c: clear • ↑↓: scroll • e: clear errors"))

	return b.String()
}

// renderLogs renders the recent log lines.
func (m Model) renderLogs() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("LOG"))
	sb.WriteString("\n\n")

	if len(m.logs) == 0 {
		sb.WriteString(mutedStyle.Render("  Waiting for events..."))
	} else {
		for _, line := range m.logs {
			sb.WriteString(mutedStyle.Render("  " + line))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (m Model) anyFeedConnected() bool {
	for _, info := range m.connectionState {
		if info != nil && info.Connected {
			return true
		}
	}
	return false
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED"))

	goldStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#F59E0B"))

	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	greenStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))

	// Animated dots based on time
	elapsed := time.Since(m.welcomeStart)
	dotCount := int(elapsed.Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder

	// Center the content vertically
	sb.WriteString("\n\n\n\n")

	// ASCII art logo
	logo := `
   ███████╗ ██████╗ ██╗          █████╗ ██████╗ ██████╗
   ██╔════╝██╔═══██╗██║         ██╔══██╗██╔══██╗██╔══██╗
   ███████╗██║   ██║██║         ███████║██████╔╝██████╔╝
   ╚════██║██║   ██║██║         ██╔══██║██╔══██╗██╔══██╗
   ███████║╚██████╔╝███████╗    ██║  ██║██║  ██║██████╔╝
   ╚══════╝ ╚═════╝ ╚══════╝    ╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")

	// Subtitle
	subtitle := "          C R O S S - D E X   A R B I T R A G E"
	sb.WriteString(mutedStyle.Render(subtitle))
	sb.WriteString("\n\n\n")

	// Tagline with gold styling
	tagline := "        PumpSwap  ×  Meteora DAMM v2  ×  Meteora DLMM"
	sb.WriteString(goldStyle.Render(tagline))
	sb.WriteString("\n\n\n")

	// Loading indicator
	loading := fmt.Sprintf("                  Initializing%s", dots)
	sb.WriteString(greenStyle.Render(loading))
	sb.WriteString("\n\n")

	// Skip hint
	hint := "            Press any key to skip, or wait..."
	sb.WriteString(mutedStyle.Render(hint))
	sb.WriteString("\n")

	return sb.String()
}

// renderStartupScreen renders the loading/startup screen.
func (m Model) renderStartupScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		MarginBottom(1)

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF"))

	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	connectingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	failedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	var sb strings.Builder

	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render("  ◎ Solana DEX Arbitrage"))
	sb.WriteString("\n\n")
	sb.WriteString(headerStyle.Render("  Starting up..."))
	sb.WriteString("\n\n")

	// Show startup steps in order
	stepOrder := []string{"config", "solana", "pumpswap", "dammv2", "dlmm"}
	for _, key := range stepOrder {
		step, ok := m.startupSteps[key]
		if !ok {
			continue
		}

		var icon, statusText string
		var style lipgloss.Style

		switch step.Status {
		case "connected", "done":
			icon = "✓"
			statusText = "Ready"
			style = successStyle
		case "connecting":
			// Animated spinner based on time
			spinners := []string{"◐", "◓", "◑", "◒"}
			idx := int(time.Since(m.startupTime).Milliseconds()/200) % len(spinners)
			icon = spinners[idx]
			statusText = "Connecting..."
			style = connectingStyle
		case "failed":
			icon = "✗"
			statusText = "Failed"
			style = failedStyle
		default:
			icon = "○"
			statusText = "Pending"
			style = mutedStyle
		}

		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			style.Render(icon),
			mutedStyle.Render(step.Name),
			style.Render(statusText),
		))
	}

	sb.WriteString("\n")
	elapsed := time.Since(m.startupTime).Round(time.Second)
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  Elapsed: %s", elapsed)))
	sb.WriteString("\n\n")

	sb.WriteString(mutedStyle.Render("  Waiting for the first venue stream..."))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	// Venue feed status, in display order
	for _, v := range marketDomain.AllVenues {
		name := v.String()
		info := m.connectionState[name]

		var statusStyle lipgloss.Style
		var icon string
		if info != nil && info.Connected {
			statusStyle = StatusConnected
			icon = "●"
		} else {
			statusStyle = StatusDisconnected
			icon = "○"
		}
		parts = append(parts, statusStyle.Render(icon+" "+name))
	}

	// Last update with activity indicator
	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		indicator := ""
		if ago < 2*time.Second {
			indicator = "▪" // Recent activity indicator
		}
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago %s", ago, indicator)))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and modules should start.
// This is set by main.go to signal when to begin loading modules.
var OnStartModules func()

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
	// Call OnStartModules callback when StartModulesMsg is sent
	if _, ok := msg.(StartModulesMsg); ok && OnStartModules != nil {
		OnStartModules()
	}
}
