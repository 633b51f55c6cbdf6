package types

import (
	"strings"

	"github.com/google/uuid"
)

// ComplaintID identifies a persisted complaint. It is assigned by the repository backend.
type ComplaintID string

func (id ComplaintID) String() string {
	return string(id)
}

// NewComplaintID returns a fresh time ordered identifier for backends that do not assign one.
func NewComplaintID() ComplaintID {
	return ComplaintID(uuid.Must(uuid.NewV7()).String())
}

// SessionID identifies a chat conversation.
type SessionID string

const sessionIDPrefix = "session_"

// NewSessionID returns a unique session identifier derived from a UUIDv7.
func NewSessionID() SessionID {
	return SessionID(sessionIDPrefix + uuid.Must(uuid.NewV7()).String())
}

// IsEmpty reports whether the id is blank.
func (id SessionID) IsEmpty() bool {
	return strings.TrimSpace(string(id)) == ""
}

func (id SessionID) String() string {
	return string(id)
}
