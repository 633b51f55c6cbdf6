package model

import (
	"time"

	"github.com/junglesafari/safaridesk/pkg/domain/types"
)

// Message is one utterance in a chat session
type Message struct {
	Role    types.Role
	Content string
	At      time.Time
}

// Session is the in-memory state of one complaint conversation.
type Session struct {
	ID         types.SessionID
	Messages   []Message
	Attributes Attributes
	// Turns counts user messages handled so far.
	Turns       int
	Finalized   bool
	ComplaintID types.ComplaintID

	CreatedAt    time.Time
	LastActiveAt time.Time
}

// NewSession returns an empty session with default attributes.
func NewSession(id types.SessionID, now time.Time) *Session {
	return &Session{
		ID:           id,
		Attributes:   DefaultAttributes(),
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

// Copy returns a deep copy so callers can read it without holding the session lock.
func (s *Session) Copy() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Messages = make([]Message, len(s.Messages))
	copy(cp.Messages, s.Messages)
	return &cp
}

// Append adds a message and keeps at most limit messages, dropping the oldest.
// A limit of zero or less keeps everything.
func (s *Session) Append(msg Message, limit int) {
	s.Messages = append(s.Messages, msg)
	if limit > 0 && len(s.Messages) > limit {
		trimmed := make([]Message, limit)
		copy(trimmed, s.Messages[len(s.Messages)-limit:])
		s.Messages = trimmed
	}
	if msg.At.After(s.LastActiveAt) {
		s.LastActiveAt = msg.At
	}
}
