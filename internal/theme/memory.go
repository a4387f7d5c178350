package theme

import (
	"context"
	"sync"
)

// MemoryStore is a PreferenceStore that lives only for the process.
type MemoryStore struct {
	values map[string]string
	writes int
	mu     sync.Mutex
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// GetPreference implements PreferenceStore.
func (s *MemoryStore) GetPreference(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// SetPreference implements PreferenceStore.
func (s *MemoryStore) SetPreference(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.writes++
	return nil
}

// Writes counts SetPreference calls.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
