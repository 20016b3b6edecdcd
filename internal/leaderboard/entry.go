// Package leaderboard keeps the top-N flappy scores, persists them to a
// storage slot, and notifies subscribers whenever the list changes.
package leaderboard

import "time"

// Slot keys. The stored formats are stable across releases.
const (
	ScoresKey     = "flappy-bird-leaderboard"
	PlayerNameKey = "flappy-bird-player-name"
)

// Defaults applied when Options leaves a limit at zero.
const (
	DefaultMaxEntries = 10
	DefaultNameMaxLen = 20
)

// Entry is one leaderboard row. Timestamp is Unix milliseconds.
type Entry struct {
	ID         string `json:"id"`
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
	Timestamp  int64  `json:"timestamp"`
}

// Time returns the entry creation time.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Listener receives a private copy of the leaderboard after each change.
type Listener func([]Entry)
