package interfaces

import (
	"context"
	"time"

	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
)

// SessionStore keeps in-progress conversations in process memory
type SessionStore interface {
	// GetOrCreate returns a snapshot of the session, creating an empty one if absent
	GetOrCreate(ctx context.Context, id types.SessionID) *model.Session

	// Append adds a message to the session history
	Append(ctx context.Context, id types.SessionID, msg model.Message) error

	// MergeAttributes merges populated slots of attrs into the session
	MergeAttributes(ctx context.Context, id types.SessionID, attrs model.Attributes) (model.Attributes, error)

	// Do runs fn with exclusive access to the session. Changes fn makes to the
	// session are kept whether or not fn returns an error.
	Do(ctx context.Context, id types.SessionID, fn func(s *model.Session) error) error

	// Evict drops sessions idle since before the given time and returns how many were removed
	Evict(ctx context.Context, idleBefore time.Time) int

	// Len returns the number of live sessions
	Len() int
}
