// Package history keeps the bounded conversation log for one assistant
// session. The store is the only conversation state that outlives a query;
// it is owned by the session and cleared explicitly, never persisted.
package history

import (
	"sync"

	"dashterm/internal/llm"
)

// DefaultMaxTurns bounds the log when no explicit limit is configured.
const DefaultMaxTurns = 20

// Store is a bounded ordered log of conversation turns. The orchestrator is
// the single writer, but access is serialized so a concurrent host is safe.
type Store struct {
	mu    sync.Mutex
	max   int
	turns []llm.Message
}

// New creates a store holding at most max turns. A non-positive max falls
// back to DefaultMaxTurns.
func New(max int) *Store {
	if max <= 0 {
		max = DefaultMaxTurns
	}
	return &Store{max: max}
}

// Append adds turns in order, then drops the oldest entries so the log never
// exceeds the configured maximum. Discarded turns are gone for good.
func (s *Store) Append(turns ...llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turns...)
	if over := len(s.turns) - s.max; over > 0 {
		s.turns = append([]llm.Message(nil), s.turns[over:]...)
	}
}

// Clear empties the log.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}

// Len reports the number of stored turns.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// Snapshot returns a copy of the log in chronological order.
func (s *Store) Snapshot() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]llm.Message, len(s.turns))
	copy(out, s.turns)
	return out
}
