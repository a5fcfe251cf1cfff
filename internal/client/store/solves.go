package store

import (
	"sync"

	"github.com/flagforge/flagforge/internal/models"
)

// Solves is the derived set of challenge IDs the current user has solved.
// It is written only by the session store's fetch, refresh, and logout
// paths and cleared whenever the session is cleared.
type Solves struct {
	mu  sync.Mutex
	ids map[int]struct{}
}

// NewSolves returns an empty solve set.
func NewSolves() *Solves {
	return &Solves{ids: make(map[int]struct{})}
}

// Populate replaces the set with the challenge IDs of the given solves.
func (s *Solves) Populate(solves []models.Solve) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[int]struct{}, len(solves))
	for _, sv := range solves {
		s.ids[sv.ChallengeID] = struct{}{}
	}
}

// Clear empties the set.
func (s *Solves) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[int]struct{})
}

// Solved reports whether the challenge is in the set.
func (s *Solves) Solved(challengeID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[challengeID]
	return ok
}

// IDs returns the solved challenge IDs in unspecified order.
func (s *Solves) IDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}
