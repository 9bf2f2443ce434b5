package prefs_inmemory

import (
	"context"
	"sync"

	"anime.bike/mastoshare/pkg/prefs"
)

// InMemoryStorage keeps values in a map. Nothing survives the process.
type InMemoryStorage struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewInMemoryStorage creates a new in-memory storage backend
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		values: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored under key
func (s *InMemoryStorage) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, prefs.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key
func (s *InMemoryStorage) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}

// Remove deletes key
func (s *InMemoryStorage) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return prefs.ErrNotFound
	}
	delete(s.values, key)
	return nil
}
