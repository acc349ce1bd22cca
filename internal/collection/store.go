package collection

import (
	"sync"

	"github.com/five82/postboard/internal/records"
)

// Store holds the client-side copy of the remote collection.
// The zero value is an empty store ready for use.
type Store struct {
	mu      sync.RWMutex
	items   []records.Record
	version uint64
}

// Snapshot returns a copy of the records in collection order.
func (s *Store) Snapshot() []records.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.items)
}

// Version increments on every applied mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Len reports the number of records held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// FindByID returns the record with id, if present.
func (s *Store) FindByID(id int64) (records.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.items[idx], true
	}
	return records.Record{}, false
}

// Replace swaps in a new collection. Later duplicates of an id are dropped.
func (s *Store) Replace(items []records.Record) {
	deduped := make([]records.Record, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, r := range items {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		deduped = append(deduped, r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = deduped
	s.version++
}

// InsertFront places r at the head of the collection. An existing entry with
// the same id is removed so ids stay unique.
func (s *Store) InsertFront(r records.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]records.Record, 0, len(s.items)+1)
	next = append(next, r)
	for _, existing := range s.items {
		if existing.ID != r.ID {
			next = append(next, existing)
		}
	}
	s.items = next
	s.version++
}

// ReplaceByID swaps the entry for id wholesale. It reports false and leaves
// the collection untouched when id is absent.
func (s *Store) ReplaceByID(id int64, r records.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	next := cloneRecords(s.items)
	next[idx] = r
	s.items = next
	s.version++
	return true
}

// RemoveByID drops the entry for id. It reports false and leaves the
// collection untouched when id is absent.
func (s *Store) RemoveByID(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	next := make([]records.Record, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	s.items = next
	s.version++
	return true
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id int64) int {
	for i, r := range s.items {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func cloneRecords(items []records.Record) []records.Record {
	if len(items) == 0 {
		return nil
	}
	dup := make([]records.Record, len(items))
	copy(dup, items)
	return dup
}
