package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/flappy"
	"github.com/vovakirdan/tui-flappy/internal/leaderboard"
)

// Game layout constants
const (
	panelWidth       = 34 // Leaderboard side panel, border included
	minWidthForPanel = 64 // Narrower terminals show the game only
	nameColumnWidth  = 20 // Fits the longest accepted name
)

// ModelOptions configures a game session.
type ModelOptions struct {
	// PlayerName pre-fills the name prompt. Empty uses the remembered name.
	PlayerName string
	// RememberName stores the submitted name as the next session's default.
	RememberName bool
	// ScreenshotDir overrides ~/.arcade/screenshots.
	ScreenshotDir string
}

// Model is the Bubble Tea model for one game session: the stepper on the
// left, the live leaderboard on the right.
//
// The frame loop only runs while a round is in play. Input arriving while it
// is idle starts a new loop generation; ticks from older generations are
// dropped, so at most one loop is ever live.
type Model struct {
	game   *flappy.Game
	screen *core.Screen
	board  *leaderboard.Store
	feed   *boardFeed
	opts   ModelOptions
	config core.RuntimeConfig
	keys   *KeyMapper
	help   help.Model

	input  core.InputFrame
	state  core.GameState
	scores []leaderboard.Entry

	prompt    textinput.Model
	prompting bool // Name prompt open for the finished round
	submitted bool // Finished round handled: saved, skipped or not qualifying

	ticking  bool
	gen      int
	status   string
	quitting bool
}

// NewModel creates a session model and subscribes it to the leaderboard.
// Call Close when the session ends.
func NewModel(game *flappy.Game, board *leaderboard.Store, cfg core.RuntimeConfig, opts ModelOptions) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	game.Reset(cfg)

	prompt := textinput.New()
	prompt.Placeholder = "your name"
	prompt.CharLimit = board.NameMaxLen()
	prompt.Width = nameColumnWidth

	m := Model{
		game:   game,
		board:  board,
		opts:   opts,
		config: cfg,
		keys:   NewKeyMapper(),
		help:   help.New(),
		input:  core.NewInputFrame(),
		state:  game.State(),
		prompt: prompt,
	}
	m.screen = core.NewScreen(m.gameWidth(), cfg.ScreenH)
	m.feed = subscribeBoard(board)
	return m
}

// Init waits for leaderboard updates. The frame loop starts on first input.
func (m Model) Init() tea.Cmd {
	return m.feed.wait()
}

// Close detaches the model from the leaderboard. Safe to call twice.
func (m Model) Close() {
	m.feed.Close()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Gen != m.gen || !m.ticking {
			return m, nil
		}
		return m.handleTick()

	case ScoresMsg:
		m.scores = []leaderboard.Entry(msg)
		return m, m.feed.wait()
	}

	// Cursor blink and other prompt internals
	if m.prompting {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompting {
		return m.handlePromptKey(msg)
	}

	if key.Matches(msg, m.keys.Keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.input) {
		m.quitting = true
		m.Close()
		return m, tea.Quit
	}

	if !m.input.Empty() {
		return m, m.startLoop()
	}
	return m, nil
}

// handlePromptKey routes keys to the name prompt.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		m.Close()
		return m, tea.Quit

	case tea.KeyEnter:
		m.submitName()
		return m, nil

	case tea.KeyEsc:
		m.prompting = false
		m.submitted = true
		m.prompt.Blur()
		m.status = "Score not saved"
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// submitName saves the finished round under the entered name, once.
func (m *Model) submitName() {
	name := strings.TrimSpace(m.prompt.Value())
	if name == "" {
		m.status = "Enter a name, or esc to skip"
		return
	}

	if m.board.AddScore(name, m.state.Score) {
		m.status = fmt.Sprintf("Saved %d for %s", m.state.Score, name)
	} else {
		m.status = "Score did not make the board"
	}
	if m.opts.RememberName {
		m.board.RememberPlayerName(name)
	}
	m.opts.PlayerName = name
	m.prompting = false
	m.submitted = true
	m.prompt.Blur()
}

// handleMouse activates on a left click inside the playfield.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.prompting || msg.X >= m.gameWidth() {
		return m, nil
	}
	if action := m.keys.MapMouse(msg); action != core.ActionNone {
		m.input.Set(action)
		return m, m.startLoop()
	}
	return m, nil
}

// handleResize processes window resize events. World coordinates do not
// depend on the terminal size, so the round keeps going.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(m.gameWidth(), msg.Height)
	m.help.Width = panelWidth - 4
	return m, nil
}

// startLoop begins a new frame loop generation unless one is running.
func (m *Model) startLoop() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	m.gen++
	return tickCmd(m.config.TickRate, m.gen)
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.input)
	m.input.Clear()
	m.state = result.State

	var cmds []tea.Cmd
	if result.Ended {
		cmds = append(cmds, m.roundOver())
	}
	if m.state.Phase == core.PhaseNotStarted {
		m.submitted = false
		m.status = ""
	}

	// Idle between rounds and while paused
	if !m.state.Running() {
		m.ticking = false
		return m, tea.Batch(cmds...)
	}

	cmds = append(cmds, tickCmd(m.config.TickRate, m.gen))
	return m, tea.Batch(cmds...)
}

// roundOver opens the name prompt when the score earns a place.
func (m *Model) roundOver() tea.Cmd {
	if m.submitted {
		return nil
	}
	if !m.board.Qualifies(m.state.Score) {
		m.submitted = true
		return nil
	}

	name := m.opts.PlayerName
	if name == "" {
		name = m.board.LastPlayerName()
	}
	m.prompt.SetValue(name)
	m.prompt.CursorEnd()
	m.prompting = true
	return m.prompt.Focus()
}

// saveScreenshot saves the current playfield to a text file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := m.opts.ScreenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			m.status = "Screenshot failed"
			return
		}
		dir = filepath.Join(home, ".arcade", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.status = "Screenshot failed"
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.status = "Screenshot failed"
		return
	}
	m.status = "Screenshot saved"
}

// gameWidth is the number of columns given to the playfield.
func (m Model) gameWidth() int {
	if m.showPanel() {
		return m.config.ScreenW - panelWidth
	}
	return m.config.ScreenW
}

func (m Model) showPanel() bool {
	return m.config.ScreenW >= minWidthForPanel
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	gameView := RenderScreen(m.screen)
	if !m.showPanel() {
		return gameView
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, gameView, m.renderPanel())
}

// renderPanel renders the leaderboard, the name prompt and key help.
func (m Model) renderPanel() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("LEADERBOARD"))
	b.WriteString("\n\n")
	b.WriteString(renderBoardRows(m.scores, nameColumnWidth))
	b.WriteString("\n\n")

	switch {
	case m.prompting:
		b.WriteString(promptTitleStyle.Render(fmt.Sprintf("NEW HIGH SCORE: %d", m.state.Score)))
		b.WriteString("\nEnter your name:\n")
		b.WriteString(m.prompt.View())
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("enter save • esc skip"))
	case m.status != "":
		b.WriteString(mutedStyle.Render(m.status))
	}

	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(m.help.View(m.keys.Keys)))

	height := m.config.ScreenH - 2
	if height < 1 {
		height = 1
	}
	return panelStyle.Width(panelWidth - 2).Height(height).Render(b.String())
}

// State returns the game state as of the last tick.
func (m Model) State() core.GameState {
	return m.state
}

// Prompting reports whether the name prompt is open.
func (m Model) Prompting() bool {
	return m.prompting
}

// Run starts the Bubble Tea program for a local session.
func Run(game *flappy.Game, board *leaderboard.Store, cfg core.RuntimeConfig, opts ModelOptions) error {
	model := NewModel(game, board, cfg, opts)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Click to activate
	)

	_, err := p.Run()
	return err
}
