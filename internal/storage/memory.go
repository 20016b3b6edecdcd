package storage

import "sync"

// MemoryKV keeps slots in process memory. Nothing survives a restart; the
// platform falls back to it when no durable backend can be opened.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}}
}

// Get returns a copy of the value stored under key.
func (m *MemoryKV) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (m *MemoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Close is a no-op.
func (m *MemoryKV) Close() error {
	return nil
}

var _ KV = (*MemoryKV)(nil)
