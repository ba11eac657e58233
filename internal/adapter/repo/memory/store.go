package memory

import (
	"sync"

	"tilefarm/internal/domain/farm"
)

// Store holds saves as encoded bytes so callers never share a record with it.
type Store struct {
	mu     sync.RWMutex
	saves  map[string][]byte
	events map[string][]farm.DomainEvent
}

func NewStore() *Store {
	return &Store{
		saves:  make(map[string][]byte),
		events: make(map[string][]farm.DomainEvent),
	}
}

// SeedRaw stores a save exactly as given, including legacy layouts.
func (s *Store) SeedRaw(userKey string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves[userKey] = append([]byte(nil), data...)
}

func (s *Store) Raw(userKey string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.saves[userKey]
	return append([]byte(nil), data...), ok
}
