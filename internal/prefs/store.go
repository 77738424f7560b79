// Package prefs holds the client-side persisted preferences: the theme and
// the favorite cities. Values live in an external key-value Store.
package prefs

import (
	"context"
	"sync"
)

// Keys under which preferences are stored.
const (
	ThemeKey     = "weatherwise:theme"
	FavoritesKey = "weatherwise:favs"
)

// Store is a string key-value store. ok is false when the key has never been set.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
