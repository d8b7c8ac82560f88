// Package flags implements durable quest-progress flag storage. A flag is a
// named bool, number or string that survives process restarts; flags are
// written through immediately on every Set and never auto-expire.
package flags

import "sync"

// Store is the flag persistence contract the interpreter depends on.
// Writes are synchronous from the interpreter's point of view.
type Store interface {
	// Get returns the flag value and whether it is set.
	Get(name string) (any, bool, error)
	// Set creates or overwrites a flag.
	Set(name string, value any) error
}

// Memory is an in-process Store with no durability. Used by tests and by
// hosts that persist state some other way.
type Memory struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string]any{}}
}

func (m *Memory) Get(name string) (any, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[name]
	return v, ok, nil
}

func (m *Memory) Set(name string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = value
	return nil
}
