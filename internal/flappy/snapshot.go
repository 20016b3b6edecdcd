package flappy

import "github.com/vovakirdan/tui-flappy/internal/core"

// Snapshot is a read-only copy of the game state for rendering and tests.
// Mutating it has no effect on the game.
type Snapshot struct {
	Tick      int
	Phase     core.Phase
	Paused    bool
	Score     int
	Player    Player
	Obstacles []Obstacle
}

// Snapshot returns the current game state.
func (g *Game) Snapshot() Snapshot {
	var obstacles []Obstacle
	if g.obstacles != nil {
		obstacles = g.obstacles.Obstacles()
	}
	return Snapshot{
		Tick:      g.tickCount,
		Phase:     g.phase,
		Paused:    g.paused,
		Score:     g.score,
		Player:    g.player,
		Obstacles: obstacles,
	}
}
