// Package config provides YAML-based game configuration loading for the
// flappy game and its leaderboard.
package config

// GameConfig contains all tunables for the game and its leaderboard.
type GameConfig struct {
	Playfield   Playfield   `yaml:"playfield"`
	Physics     Physics     `yaml:"physics"`
	Player      Player      `yaml:"player"`
	Obstacles   Obstacles   `yaml:"obstacles"`
	Leaderboard Leaderboard `yaml:"leaderboard"`
}

// Playfield is the fixed-size simulation area, in world units.
type Playfield struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Physics defines per-step kinematics.
type Physics struct {
	Gravity     float64 `yaml:"gravity"`      // Added to velocity every step
	JumpImpulse float64 `yaml:"jump_impulse"` // Velocity overwrite on activate (negative = up)
}

// Player defines the player's fixed column and square hitbox.
type Player struct {
	X    float64 `yaml:"x"`
	Size float64 `yaml:"size"`
}

// Obstacles defines obstacle geometry and spawning.
type Obstacles struct {
	Width         float64 `yaml:"width"`
	Gap           float64 `yaml:"gap"`            // Constant passable gap height
	Speed         float64 `yaml:"speed"`          // Leftward movement per step
	SpawnDistance float64 `yaml:"spawn_distance"` // Spawn when rightmost x < width - spawn_distance
	EdgeMargin    float64 `yaml:"edge_margin"`    // Minimum height of each segment
}

// Leaderboard defines top-N list limits.
type Leaderboard struct {
	MaxEntries int `yaml:"max_entries"`
	NameMaxLen int `yaml:"name_max_len"`
}

// StoreKind names a durable key-value backend for the leaderboard slots.
type StoreKind string

const (
	StoreSQLite StoreKind = "sqlite"
	StoreFile   StoreKind = "json"
	StoreRedis  StoreKind = "redis"
)
