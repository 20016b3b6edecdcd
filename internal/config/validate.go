package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that the configuration describes a playable field.
func (c GameConfig) Validate() error {
	var errs []string

	if c.Playfield.Width <= 0 || c.Playfield.Height <= 0 {
		errs = append(errs, "playfield width and height must be positive")
	}
	if c.Physics.Gravity <= 0 {
		errs = append(errs, "physics.gravity must be positive")
	}
	if c.Physics.JumpImpulse >= 0 {
		errs = append(errs, "physics.jump_impulse must be negative (upward)")
	}
	if c.Player.Size <= 0 {
		errs = append(errs, "player.size must be positive")
	}
	if c.Player.X < 0 || c.Player.X+c.Player.Size > c.Playfield.Width {
		errs = append(errs, "player must fit horizontally inside the playfield")
	}
	// Rounds start with the player at mid-height.
	if c.Player.Size > 0 && c.Playfield.Height/2+c.Player.Size >= c.Playfield.Height {
		errs = append(errs, fmt.Sprintf("player.size (%g) must be less than half the playfield height (%g)",
			c.Player.Size, c.Playfield.Height))
	}
	if c.Obstacles.Width <= 0 {
		errs = append(errs, "obstacles.width must be positive")
	}
	if c.Obstacles.Speed <= 0 {
		errs = append(errs, "obstacles.speed must be positive")
	}
	if c.Obstacles.SpawnDistance <= 0 {
		errs = append(errs, "obstacles.spawn_distance must be positive")
	}
	if c.Obstacles.EdgeMargin <= 0 {
		errs = append(errs, "obstacles.edge_margin must be positive")
	}
	if c.Obstacles.Gap < c.Player.Size {
		errs = append(errs, "obstacles.gap must be at least player.size")
	}
	if c.Obstacles.Gap+2*c.Obstacles.EdgeMargin > c.Playfield.Height {
		errs = append(errs, fmt.Sprintf("obstacles.gap + 2*edge_margin (%g) exceeds playfield height (%g)",
			c.Obstacles.Gap+2*c.Obstacles.EdgeMargin, c.Playfield.Height))
	}
	if c.Leaderboard.MaxEntries <= 0 {
		errs = append(errs, "leaderboard.max_entries must be positive")
	}
	if c.Leaderboard.NameMaxLen <= 0 {
		errs = append(errs, "leaderboard.name_max_len must be positive")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// ParseStoreKind validates a backend name from a flag.
func ParseStoreKind(s string) (StoreKind, error) {
	switch k := StoreKind(strings.ToLower(strings.TrimSpace(s))); k {
	case StoreSQLite, StoreFile, StoreRedis:
		return k, nil
	case "":
		return StoreSQLite, nil
	default:
		return "", fmt.Errorf("unknown store %q (want sqlite, json or redis)", s)
	}
}
