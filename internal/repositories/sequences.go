package repositories

import "sync"

// Sequences is the in-memory counterpart of the Redis room sequence keys.
// In-memory repositories share one instance so every committed mutation
// in a room advances the same counter.
type Sequences struct {
	mu   sync.Mutex
	seqs map[string]int64
}

// NewSequences creates an empty sequence table
func NewSequences() *Sequences {
	return &Sequences{seqs: make(map[string]int64)}
}

// Next increments and returns the sequence for roomID
func (s *Sequences) Next(roomID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seqs[roomID]++
	return s.seqs[roomID]
}

// Current returns the sequence for roomID without changing it
func (s *Sequences) Current(roomID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seqs[roomID]
}
