package storage

import "sync"

// Memory is an in-process backend for tests and ephemeral runs.
type Memory struct {
	mu   sync.Mutex
	data []byte
	set  bool

	// SaveErr, when non-nil, is returned by every Save. Lets tests
	// exercise persistence-failure paths.
	SaveErr error
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory { return &Memory{} }

// Seed pre-loads the backend with a blob, as if it had been persisted by a
// previous session.
func (m *Memory) Seed(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.set = true
}

// Load implements Backend.
func (m *Memory) Load() ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, false, nil
	}
	return append([]byte(nil), m.data...), true, nil
}

// Save implements Backend.
func (m *Memory) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = append([]byte(nil), data...)
	m.set = true
	return nil
}

// Close implements Backend.
func (m *Memory) Close() error { return nil }
