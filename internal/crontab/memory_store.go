package crontab

import (
	"context"
	"sync"
)

// MemoryStore keeps the table in memory. It is used in tests and dry runs.
type MemoryStore struct {
	mu      sync.Mutex
	table   Table
	saves   int
	LoadErr error // returned by Load when set
	SaveErr error // returned by Save when set
}

// NewMemoryStore creates a store holding a copy of initial.
func NewMemoryStore(initial Table) *MemoryStore {
	return &MemoryStore{table: initial.Clone()}
}

func (s *MemoryStore) Name() string {
	return "memory"
}

func (s *MemoryStore) Load(ctx context.Context) (Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.LoadErr != nil {
		return nil, readError(s.Name(), s.LoadErr)
	}
	return s.table.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, t Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return writeError(s.Name(), s.SaveErr)
	}
	s.table = t.Clone()
	s.saves++
	return nil
}

// Table returns a copy of the stored table.
func (s *MemoryStore) Table() Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Clone()
}

// Saves returns how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
