package core

// RuntimeConfig contains configuration passed to the game at initialization.
// The game uses this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Frames per second requested from the host loop (default 60)
	Seed     int64 // RNG seed for deterministic obstacle generation
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Phase is the round lifecycle of the game.
type Phase int

const (
	PhaseNotStarted Phase = iota // Waiting for the first activate
	PhaseRunning                 // Simulation advancing every frame
	PhaseOver                    // Collision happened; waiting for activate to reset
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseRunning:
		return "Running"
	case PhaseOver:
		return "Over"
	default:
		return "Unknown"
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score  int   // Current score
	Phase  Phase // Round lifecycle
	Paused bool  // Whether the game is paused (only while running)
}

// GameOver reports whether the round has ended.
func (s GameState) GameOver() bool {
	return s.Phase == PhaseOver
}

// Running reports whether the simulation is advancing.
func (s GameState) Running() bool {
	return s.Phase == PhaseRunning && !s.Paused
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	// Ended is true only on the frame where the round transitioned to Over.
	Ended bool
}
