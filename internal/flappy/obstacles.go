package flappy

import (
	"math/rand"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Obstacle is a top/bottom segment pair with a passable gap between them.
type Obstacle struct {
	X         float64 // Horizontal position (left edge)
	TopHeight float64 // Bottom edge of the top segment (top of gap)
	BottomY   float64 // Top edge of the bottom segment (bottom of gap)
	Passed    bool    // Whether the player has passed this obstacle (for scoring)
}

// Span returns the obstacle's full-height column for horizontal overlap tests.
func (o Obstacle) Span(width, height float64) core.Rect {
	return core.NewRect(o.X, 0, width, height)
}

// TopRect returns the area covered by the top segment.
func (o Obstacle) TopRect(width float64) core.Rect {
	return core.NewRect(o.X, 0, width, o.TopHeight)
}

// BottomRect returns the area covered by the bottom segment.
func (o Obstacle) BottomRect(width, height float64) core.Rect {
	return core.NewRect(o.X, o.BottomY, width, height-o.BottomY)
}

// ObstacleManager handles spawning, movement, and removal of obstacles.
// Obstacles are kept ordered by x ascending, oldest first.
type ObstacleManager struct {
	obstacles []Obstacle
	rng       *rand.Rand
	cfg       config.Obstacles
	field     config.Playfield
}

// NewObstacleManager creates a new obstacle manager with the given RNG seed.
func NewObstacleManager(seed int64, cfg config.Obstacles, field config.Playfield) *ObstacleManager {
	om := &ObstacleManager{
		obstacles: make([]Obstacle, 0, 4),
		cfg:       cfg,
		field:     field,
	}
	om.Reseed(seed)
	return om
}

// Reseed restarts the gap RNG stream and clears all obstacles.
func (om *ObstacleManager) Reseed(seed int64) {
	om.rng = rand.New(rand.NewSource(seed))
	om.Clear()
}

// Clear removes all obstacles. The RNG stream continues so rounds differ.
func (om *ObstacleManager) Clear() {
	om.obstacles = om.obstacles[:0]
}

// Advance moves obstacles left, retires off-screen ones and spawns at most one.
// Returns true if an obstacle was spawned.
func (om *ObstacleManager) Advance() bool {
	for i := range om.obstacles {
		om.obstacles[i].X -= om.cfg.Speed
	}

	// Remove obstacles whose right edge has scrolled past the left edge
	valid := om.obstacles[:0]
	for _, o := range om.obstacles {
		if o.X+om.cfg.Width > 0 {
			valid = append(valid, o)
		}
	}
	om.obstacles = valid

	if n := len(om.obstacles); n == 0 || om.obstacles[n-1].X < om.field.Width-om.cfg.SpawnDistance {
		om.spawn()
		return true
	}
	return false
}

// spawn appends a new obstacle at the right edge with a random gap position.
// The top height is uniform over [margin, height-gap-margin) so both segments
// keep at least margin of extent.
func (om *ObstacleManager) spawn() {
	span := om.field.Height - om.cfg.Gap - 2*om.cfg.EdgeMargin
	top := om.cfg.EdgeMargin
	if span > 0 {
		top += om.rng.Float64() * span
	}

	om.obstacles = append(om.obstacles, Obstacle{
		X:         om.field.Width,
		TopHeight: top,
		BottomY:   top + om.cfg.Gap,
	})
}

// Score flags every obstacle whose right edge has crossed playerX and returns
// how many were newly passed. Each obstacle counts at most once.
func (om *ObstacleManager) Score(playerX float64) int {
	passed := 0
	for i := range om.obstacles {
		if !om.obstacles[i].Passed && om.obstacles[i].X+om.cfg.Width < playerX {
			om.obstacles[i].Passed = true
			passed++
		}
	}
	return passed
}

// Collides reports whether the player rectangle hits any obstacle: the spans
// overlap horizontally and the player is not fully inside the gap.
func (om *ObstacleManager) Collides(player core.Rect) bool {
	for _, o := range om.obstacles {
		if !player.OverlapsX(o.Span(om.cfg.Width, om.field.Height)) {
			continue
		}
		if !player.WithinY(o.TopHeight, o.BottomY) {
			return true
		}
	}
	return false
}

// Obstacles returns a copy of the current obstacles.
func (om *ObstacleManager) Obstacles() []Obstacle {
	out := make([]Obstacle, len(om.obstacles))
	copy(out, om.obstacles)
	return out
}
