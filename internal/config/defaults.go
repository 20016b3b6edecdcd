package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultGameYAML []byte

// DefaultGameConfig returns the built-in configuration.
// It mirrors defaults/flappy.yaml and is used if the embedded file fails to parse.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Playfield: Playfield{
			Width:  400,
			Height: 600,
		},
		Physics: Physics{
			Gravity:     0.5,
			JumpImpulse: -9,
		},
		Player: Player{
			X:    80,
			Size: 36,
		},
		Obstacles: Obstacles{
			Width:         60,
			Gap:           180,
			Speed:         2,
			SpawnDistance: 250,
			EdgeMargin:    60,
		},
		Leaderboard: Leaderboard{
			MaxEntries: 10,
			NameMaxLen: 20,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultGameYAML
}
