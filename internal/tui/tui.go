package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func padToWidth(s string, width int) string {
	current := runewidth.StringWidth(s)
	if current >= width {
		return s
	}
	return s + strings.Repeat(" ", width-current)
}

func separatorLine(width int) string {
	if width < 2 {
		return strings.Repeat("─", width)
	}
	return "├" + strings.Repeat("─", width-2) + "┤"
}

func formatInfoLine(text string, width int) string {
	if width < 2 {
		return padToWidth(text, width)
	}
	return "│" + padToWidth(text, width-2) + "│"
}

func truncateToWidth(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	truncated := ""
	for _, r := range []rune(s) {
		if runewidth.StringWidth(truncated+string(r)) > width-3 {
			break
		}
		truncated += string(r)
	}
	return truncated + "..."
}

// StatusInfo represents the current node status line
type StatusInfo struct {
	ChainHeight   int64
	DBDialect     string
	MarketAddress string
	ListingCount  int64
	UpdatedAt     time.Time
}

// OptionTally is one option's current vote count
type OptionTally struct {
	OptionID    int
	Description string
	Votes       int64
}

// ProposalInfo represents one proposal row with its tally
type ProposalInfo struct {
	ID            uint
	Title         string
	Type          string
	Submitter     string
	SubmitterName string
	Block         int64
	Options       []OptionTally
}

// UpdateMsg is sent when node status should be updated
type UpdateMsg struct {
	Status StatusInfo
}

// ProposalsUpdateMsg is sent when the proposal list should be updated
type ProposalsUpdateMsg struct {
	Proposals []ProposalInfo
}

// Model holds the TUI state
type Model struct {
	status    StatusInfo
	proposals []ProposalInfo
	width     int
	height    int
}

// NewModel creates a new TUI model
func NewModel() Model {
	return Model{
		status:    StatusInfo{},
		proposals: []ProposalInfo{},
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case UpdateMsg:
		m.status = msg.Status
		return m, nil

	case ProposalsUpdateMsg:
		m.proposals = msg.Proposals
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	proposalsTable := m.renderProposals()

	return lipgloss.JoinVertical(lipgloss.Left, header, proposalsTable)
}

// renderHeader renders the top status section
func (m Model) renderHeader() string {
	market := m.status.MarketAddress
	if market == "" {
		market = "N/A"
	}
	db := m.status.DBDialect
	if db == "" {
		db = "none"
	}
	updated := "N/A"
	if !m.status.UpdatedAt.IsZero() {
		updated = m.status.UpdatedAt.Format("15:04:05")
	}

	lines := []string{
		fmt.Sprintf("chain height: %d", m.status.ChainHeight),
		fmt.Sprintf("db: %s  listings: %d", db, m.status.ListingCount),
		fmt.Sprintf("market: %s", truncateToWidth(market, m.width-12)),
		fmt.Sprintf("updated: %s", updated),
	}

	topBorder := "┌" + strings.Repeat("─", m.width-2) + "┐"
	var rows []string
	for _, line := range lines {
		rows = append(rows, formatInfoLine(" "+truncateToWidth(line, m.width-4), m.width))
	}
	return topBorder + "\n" + strings.Join(rows, "\n") + "\n" + separatorLine(m.width)
}

// renderProposals renders the proposal tally table
func (m Model) renderProposals() string {
	bottomBorder := "└" + strings.Repeat("─", m.width-2) + "┘"

	// Subtract header height (~6 lines) plus table legend and borders
	availableHeight := m.height - 9
	if availableHeight <= 0 {
		return bottomBorder
	}

	if len(m.proposals) == 0 {
		return formatInfoLine(" no proposals", m.width) + "\n" + bottomBorder
	}

	var lines []string
	for _, p := range m.proposals {
		if len(lines) >= availableHeight {
			break
		}

		submitter := p.Submitter
		if p.SubmitterName != "" {
			submitter = fmt.Sprintf("%s (%s)", truncateToWidth(p.Submitter, 12), p.SubmitterName)
		} else if len(submitter) > 16 {
			submitter = submitter[:16] + "..."
		}

		title := fmt.Sprintf(" %4d %-10s block=%-8d %s  %s",
			p.ID, p.Type, p.Block, submitter, truncateToWidth(p.Title, 40))
		lines = append(lines, formatInfoLine(truncateToWidth(title, m.width-2), m.width))

		for _, opt := range p.Options {
			if len(lines) >= availableHeight {
				break
			}
			optLine := fmt.Sprintf("        [%d] %-30s %6d votes",
				opt.OptionID, truncateToWidth(opt.Description, 30), opt.Votes)
			lines = append(lines, formatInfoLine(truncateToWidth(optLine, m.width-2), m.width))
		}
	}

	legend := formatInfoLine(" ID, Type, Block, Submitter, Title / per-option tallies", m.width)
	return strings.Join(lines, "\n") + "\n" + separatorLine(m.width) + "\n" + legend + "\n" + bottomBorder
}

// Run starts the TUI program
func Run(updateCh <-chan interface{}) error {
	m := NewModel()
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Start goroutine to receive updates
	go func() {
		for data := range updateCh {
			switch v := data.(type) {
			case StatusInfo:
				p.Send(UpdateMsg{Status: v})
			case []ProposalInfo:
				p.Send(ProposalsUpdateMsg{Proposals: v})
			case UpdateMsg:
				p.Send(v)
			case ProposalsUpdateMsg:
				p.Send(v)
			}
		}
		// Channel closed, quit TUI
		p.Quit()
	}()

	_, err := p.Run()
	return err
}
