package session

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore is a volatile Store keeping records in a process local map.
// It is safe for concurrent access. Records are cloned on the way in and out
// to prevent external mutation of internal state.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]*Record)}
}

// Save stores a clone of rec.
func (s *InMemoryStore) Save(_ context.Context, rec *Record) error {
	if rec == nil || rec.ID == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = rec.Clone()

	return nil
}

// Get returns a clone of the record with id.
func (s *InMemoryStore) Get(_ context.Context, id string) (*Record, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}

	return rec.Clone(), nil
}

// List returns clones of all records, most recently started first.
func (s *InMemoryStore) List(_ context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}

	sortNewestFirst(out)

	return out, nil
}

func sortNewestFirst(recs []*Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].StartedAt.Equal(recs[j].StartedAt) {
			return recs[i].ID > recs[j].ID
		}

		return recs[i].StartedAt.After(recs[j].StartedAt)
	})
}
