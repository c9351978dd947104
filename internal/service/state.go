package service

import (
	"maps"
	"sync"

	"homeboy/internal/models"
)

// StateStore holds the latest display state. Each completed cycle replaces
// it wholesale; readers get a copy.
type StateStore struct {
	mu   sync.RWMutex
	snap models.Snapshot
}

func NewStateStore() *StateStore {
	return &StateStore{}
}

func (s *StateStore) Replace(snap models.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *StateStore) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.snap
	out.Values = maps.Clone(s.snap.Values)
	return out
}
