package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/foodent/foodscan/pkg/types"
)

// DefaultMaxEntries bounds the history when no limit is injected.
const DefaultMaxEntries = 50

// Session is an explicit per-caller analysis history. Each session owns its
// own log; sessions are never shared across callers, so results cannot leak
// between them. The log is capped: appending beyond MaxEntries drops the
// oldest entry.
type Session struct {
	id         string
	maxEntries int

	mu      sync.Mutex
	entries []types.AnalysisResult
}

// New creates a session with the given history cap. Non-positive caps fall
// back to DefaultMaxEntries.
func New(maxEntries int) *Session {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Session{
		id:         uuid.New().String(),
		maxEntries: maxEntries,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Append records an analysis result, evicting the oldest entry once the cap
// is reached.
func (s *Session) Append(result types.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, result)
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[len(s.entries)-s.maxEntries:]
	}
}

// Entries returns a copy of the history, oldest first.
func (s *Session) Entries() []types.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.AnalysisResult, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of recorded results.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear empties the history.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}
