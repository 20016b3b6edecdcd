package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

// FileKV persists all slots to a single JSON object on disk.
// Writes go through a temp file and rename so a crash never leaves a torn file.
type FileKV struct {
	path string
	mu   sync.Mutex
	data map[string]string
}

// OpenFile loads (or starts) the JSON file at path.
// A missing file is an empty store; a malformed one is an error.
func OpenFile(path string) (*FileKV, error) {
	path, err := config.ExpandHome(path)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	f := &FileKV{path: path, data: map[string]string{}}
	if err := f.load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("storage: cannot load %s: %w", path, err)
	}
	return f, nil
}

func (f *FileKV) load() error {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, &f.data)
}

func (f *FileKV) persist() error {
	b, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Get returns the value stored under key.
func (f *FileKV) Get(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

// Set replaces the value stored under key and rewrites the file.
func (f *FileKV) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.data[key]
	f.data[key] = string(value)
	if err := f.persist(); err != nil {
		// Keep memory consistent with disk.
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return fmt.Errorf("storage: cannot write %q: %w", key, err)
	}
	return nil
}

// Close is a no-op; every Set is already durable.
func (f *FileKV) Close() error {
	return nil
}

var _ KV = (*FileKV)(nil)
