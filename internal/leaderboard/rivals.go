package leaderboard

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// RivalInterval is how often Rivals gets a chance to post a score.
const RivalInterval = 5 * time.Second

// Rivals posts occasional scores from simulated players so a single
// local player sees the board move. It only acts on a non-empty board.
type Rivals struct {
	rng      *rand.Rand
	Chance   float64 // probability per tick
	MaxScore int     // rival scores are in [1, MaxScore]
}

// NewRivals creates a simulator with the default 10% chance per tick.
func NewRivals(seed int64) *Rivals {
	return &Rivals{
		rng:      rand.New(rand.NewSource(seed)),
		Chance:   0.1,
		MaxScore: 50,
	}
}

// Tick rolls once and may add a rival score to s. It reports whether a
// score was posted.
func (r *Rivals) Tick(s *Store) bool {
	if len(s.Scores()) == 0 {
		return false
	}
	if r.rng.Float64() >= r.Chance {
		return false
	}
	name := fmt.Sprintf("Player%d", r.rng.Intn(1000))
	score := r.rng.Intn(r.MaxScore) + 1
	s.AddScore(name, score)
	return true
}

// Run ticks every interval until ctx is done.
func (r *Rivals) Run(ctx context.Context, s *Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Tick(s)
		}
	}
}
