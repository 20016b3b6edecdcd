package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/flappy"
	"github.com/vovakirdan/tui-flappy/internal/leaderboard"
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Clear   key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Clear, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Clear, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear board"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is a live full-screen view of the leaderboard.
type ScoreboardModel struct {
	board      *leaderboard.Store
	feed       *boardFeed
	scores     []leaderboard.Entry
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	confirming bool // Waiting for y/n after the clear key
	quitting   bool
	reload     time.Duration // Storage poll interval; zero disables
}

// NewScoreboardModel creates a scoreboard subscribed to board.
// Call Close when done.
func NewScoreboardModel(board *leaderboard.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		board:  board,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.feed = subscribeBoard(board)
	return m
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Player", Width: nameColumnWidth},
		{Title: "Score", Width: 7},
		{Title: "Date", Width: 14},
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows updates the table with current scores.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.scores))
	for i, e := range m.scores {
		rows[i] = table.Row{
			RankLabel(i),
			e.PlayerName,
			fmt.Sprintf("%d", e.Score),
			e.Time().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
}

// WithReload makes the scoreboard re-read the storage every interval so
// scores saved by other processes appear without a restart.
func (m ScoreboardModel) WithReload(interval time.Duration) ScoreboardModel {
	m.reload = interval
	return m
}

// Init waits for the first leaderboard delivery and starts polling when
// a reload interval is set.
func (m ScoreboardModel) Init() tea.Cmd {
	if m.reload <= 0 {
		return m.feed.wait()
	}
	return tea.Batch(m.feed.wait(), reloadCmd(m.reload))
}

// Close detaches the scoreboard from the leaderboard.
func (m ScoreboardModel) Close() {
	m.feed.Close()
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case ScoresMsg:
		m.scores = []leaderboard.Entry(msg)
		m.updateTableRows()
		return m, m.feed.wait()

	case reloadMsg:
		// A change comes back through the feed as a ScoresMsg.
		m.board.Reload()
		if m.reload <= 0 {
			return m, nil
		}
		return m, reloadCmd(m.reload)

	case tea.KeyMsg:
		if m.confirming {
			switch {
			case key.Matches(msg, m.keys.Confirm):
				m.confirming = false
				m.board.Clear()
			case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
				m.confirming = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.Close()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Clear):
			if len(m.scores) > 0 {
				m.confirming = true
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("HIGH SCORES - "+flappy.GameTitle, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))
	b.WriteString("\n")

	if m.confirming {
		warn := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
		b.WriteString(warn.Render("Clear all scores? (y/n)"))
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.scores) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No scores recorded yet.\nPlay a round to set a high score!")
	}

	return m.table.View()
}

// Scores returns the most recently delivered list.
func (m ScoreboardModel) Scores() []leaderboard.Entry {
	return m.scores
}

// RunScoreboard runs the scoreboard screen until the user quits. A positive
// reload interval polls the storage for scores saved elsewhere.
func RunScoreboard(board *leaderboard.Store, width, height int, reload time.Duration) error {
	model := NewScoreboardModel(board, width, height).WithReload(reload)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
