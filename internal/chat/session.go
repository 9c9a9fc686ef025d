package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session represents one conversation with the model.
// History is append-only; the only other mutation is an explicit Clear.
type Session struct {
	ID        string
	StartTime time.Time
	WorkDir   string

	history []Message
	version int64
	mu      sync.RWMutex
}

// NewSession creates a new empty session.
func NewSession(workDir string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartTime: time.Now(),
		WorkDir:   workDir,
	}
}

// Append adds messages to the history in order.
func (s *Session) Append(msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, msgs...)
	s.version++
}

// Messages returns a copy of the history.
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// MessageCount returns the number of messages in the session.
func (s *Session) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// Version returns a counter incremented on every mutation.
func (s *Session) Version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Clear truncates the history to empty.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = nil
	s.version++
}
