package gitconfig

import (
	"context"
	"sync"
)

// MapStore is an in-memory Store. Local values shadow global ones.
type MapStore struct {
	mu     sync.Mutex
	Global map[string]string
	Local  map[string]string
}

// NewMapStore returns a MapStore seeded with global values.
func NewMapStore(global map[string]string) *MapStore {
	if global == nil {
		global = map[string]string{}
	}
	return &MapStore{Global: global, Local: map[string]string{}}
}

// Get implements Store.
func (m *MapStore) Get(_ context.Context, key string, localOnly bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.Local[key]; ok {
		return v, nil
	}
	if localOnly {
		return "", nil
	}
	return m.Global[key], nil
}

// Set implements Store.
func (m *MapStore) Set(_ context.Context, key, value string, localOnly bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if localOnly {
		m.Local[key] = value
	} else {
		m.Global[key] = value
	}
	return nil
}
