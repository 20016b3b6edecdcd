// Package storage provides durable key-value slots for the leaderboard.
//
// A slot is a named byte value that is read and written synchronously and
// replaced wholesale on every write. Backends: SQLite (default, pure Go),
// a single JSON file, Redis, and an in-memory map.
package storage

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

// ErrNotFound is returned by Get when a slot has never been written.
var ErrNotFound = errors.New("storage: key not found")

// KV is a synchronous key-value store holding named slots.
type KV interface {
	// Get returns the slot value or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set replaces the slot value.
	Set(key string, value []byte) error
	// Close releases the backend.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Kind  config.StoreKind
	Path  string // SQLite database or JSON file path; ~ is expanded
	Redis RedisConfig
}

// Open creates the backend named by opts.Kind.
func Open(opts Options) (KV, error) {
	var (
		kv  KV
		err error
	)
	switch opts.Kind {
	case config.StoreSQLite, "":
		kv, err = OpenSQLite(opts.Path)
	case config.StoreFile:
		kv, err = OpenFile(opts.Path)
	case config.StoreRedis:
		kv, err = OpenRedis(opts.Redis)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", opts.Kind)
	}
	if err != nil {
		return nil, err
	}
	return kv, nil
}
