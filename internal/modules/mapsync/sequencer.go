// README: Request sequencing for overlapping reverse-geocode lookups.
package mapsync

import "sync"

// Sequencer hands out monotonically increasing tokens for asynchronous
// lookups whose responses may arrive out of order. A response is applied
// only if it belongs to the newest issued request; anything older is
// discarded, so a slow early response can never overwrite the result of a
// later one.
type Sequencer struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

// Next issues a token for a new request. Issuing a token invalidates every
// outstanding older one.
func (s *Sequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Accept reports whether the response for token may be applied, and marks it
// applied when so. Only the newest issued token is ever accepted, and only
// once.
func (s *Sequencer) Accept(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.issued || token <= s.applied {
		return false
	}
	s.applied = token
	return true
}
