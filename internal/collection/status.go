package collection

import "sync"

// StatusSnapshot is a point-in-time copy of the shared operation status.
type StatusSnapshot struct {
	Loading   bool
	LastError error
	InFlight  int    // operations currently waiting on the remote
	Overlaps  uint64 // operations that began while another was in flight
}

// Status is the loading/error state shared by every operation on a
// collection. Writes are last-writer-wins: the operation that settles last
// decides Loading and LastError, whatever else is still in flight.
type Status struct {
	mu   sync.RWMutex
	snap StatusSnapshot
}

// Begin marks an operation as started: Loading is set and LastError cleared.
func (s *Status) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.InFlight > 0 {
		s.snap.Overlaps++
	}
	s.snap.InFlight++
	s.snap.Loading = true
	s.snap.LastError = nil
}

// Settle records the outcome of an operation and clears Loading.
func (s *Status) Settle(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.InFlight > 0 {
		s.snap.InFlight--
	}
	s.snap.Loading = false
	s.snap.LastError = err
}

// Snapshot returns a copy of the current status.
func (s *Status) Snapshot() StatusSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
