// Package flappy implements a Flappy-Bird-style side scroller.
// The player steers a small ship through gaps in a drifting asteroid belt.
//
// The game is a pure state machine driven by the host one frame at a time:
// pending input is applied first, then the simulation advances one step.
package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// ID and title reported to the platform.
const (
	GameID    = "flappy"
	GameTitle = "Flappy Orbit"
)

// Player is the player's body: fixed column, vertical kinematics, square hitbox.
type Player struct {
	X        float64
	Y        float64 // Top of hitbox
	Velocity float64 // Positive = falling
	Size     float64
}

// Rect returns the player's collision rectangle.
func (p Player) Rect() core.Rect {
	return core.NewRect(p.X, p.Y, p.Size, p.Size)
}

// Game implements the stepper: physics, obstacles, collisions and score.
type Game struct {
	cfg       config.GameConfig
	runtime   core.RuntimeConfig
	player    Player
	obstacles *ObstacleManager
	score     int
	phase     core.Phase
	paused    bool
	tickCount int // Running steps in the current round
}

// New creates a new game instance with the given configuration.
// Reset must be called before the first Step.
func New(cfg config.GameConfig) *Game {
	return &Game{cfg: cfg}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return GameTitle
}

// Config returns the game configuration.
func (g *Game) Config() config.GameConfig {
	return g.cfg
}

// Reset reseeds obstacle generation and returns to the NotStarted phase.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.runtime = rc
	if g.obstacles == nil {
		g.obstacles = NewObstacleManager(rc.Seed, g.cfg.Obstacles, g.cfg.Playfield)
	} else {
		g.obstacles.Reseed(rc.Seed)
	}
	g.resetRound()
	g.phase = core.PhaseNotStarted
}

// resetRound puts the player back at the start with no obstacles and no score.
func (g *Game) resetRound() {
	g.player = Player{
		X:    g.cfg.Player.X,
		Y:    g.cfg.Playfield.Height / 2,
		Size: g.cfg.Player.Size,
	}
	g.obstacles.Clear()
	g.score = 0
	g.paused = false
	g.tickCount = 0
}

// Step applies pending input and then advances the simulation one frame.
//
// Activate drives the round state machine: NotStarted -> Running (a fresh
// round), Running -> jump, Over -> NotStarted. Restarting from Over therefore
// needs a second activate to launch.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionActivate) {
		g.activate()
	}

	if in.Has(core.ActionPause) && g.phase == core.PhaseRunning {
		g.paused = !g.paused
	}

	if g.phase != core.PhaseRunning || g.paused {
		return core.StepResult{State: g.State()}
	}

	g.tickCount++
	ended := g.advance()

	return core.StepResult{State: g.State(), Ended: ended}
}

// activate handles the single user trigger for the current phase.
func (g *Game) activate() {
	switch g.phase {
	case core.PhaseNotStarted:
		g.resetRound()
		g.phase = core.PhaseRunning
	case core.PhaseRunning:
		if !g.paused {
			// Impulse overwrites velocity; it is not integrated.
			g.player.Velocity = g.cfg.Physics.JumpImpulse
		}
	case core.PhaseOver:
		g.resetRound()
		g.phase = core.PhaseNotStarted
	}
}

// advance runs one physics step. Returns true if the round ended.
//
// On collision the pending position update is discarded: the player stays at
// its pre-step position and velocity, so the final frame shows it one step
// short of the obstacle or boundary it hit.
func (g *Game) advance() bool {
	prevY, prevVel := g.player.Y, g.player.Velocity

	g.player.Velocity += g.cfg.Physics.Gravity
	g.player.Y += g.player.Velocity

	if g.outOfBounds() || g.obstacles.Collides(g.player.Rect()) {
		g.player.Y, g.player.Velocity = prevY, prevVel
		g.phase = core.PhaseOver
		return true
	}

	g.obstacles.Advance()
	g.score += g.obstacles.Score(g.player.X)
	return false
}

// outOfBounds checks the ceiling and floor of the playfield.
func (g *Game) outOfBounds() bool {
	return g.player.Y <= 0 || g.player.Y+g.player.Size >= g.cfg.Playfield.Height
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:  g.score,
		Phase:  g.phase,
		Paused: g.paused,
	}
}
