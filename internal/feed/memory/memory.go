// Package memory provides an in-memory feed adapter for local runs and
// tests.
package memory

import (
	"context"
	"sync"

	"legtrack/internal/feed"
)

type Store struct {
	mu    sync.Mutex
	sets  map[string]feed.RowSet
	reads int
}

var _ feed.BaseDataReader = (*Store)(nil)

func New(sets map[string]feed.RowSet) *Store {
	copied := make(map[string]feed.RowSet, len(sets))
	for name, rows := range sets {
		copied[name] = append(feed.RowSet(nil), rows...)
	}
	return &Store{sets: copied}
}

// ReadRowSets returns the wanted sets. A sheet with no seeded rows comes
// back empty rather than failing, matching a blank tab in the spreadsheet.
func (s *Store) ReadRowSets(_ context.Context, wanted []string) (map[string]feed.RowSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	out := make(map[string]feed.RowSet, len(wanted))
	for _, name := range wanted {
		out[name] = append(feed.RowSet(nil), s.sets[name]...)
	}
	return out, nil
}

// Reads returns how many times the feed has been read, for idempotence
// checks.
func (s *Store) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}
