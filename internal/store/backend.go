package store

import "sync"

// Backend is durable blob storage addressed by string keys. The store keeps
// its whole State under one key.
type Backend interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set durably replaces the value stored under key.
	Set(key string, value []byte) error
	Close() error
}

// MemoryBackend keeps blobs in a map. State does not survive the process.
type MemoryBackend struct {
	mu         sync.Mutex
	data       map[string][]byte
	failWrites error
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (m *MemoryBackend) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores a copy of value.
func (m *MemoryBackend) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

// SetFailWrites makes every Set return err until it is called again with nil.
func (m *MemoryBackend) SetFailWrites(err error) {
	m.mu.Lock()
	m.failWrites = err
	m.mu.Unlock()
}

// Close is a no-op.
func (m *MemoryBackend) Close() error { return nil }
