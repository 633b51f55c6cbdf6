// Package session keeps in-progress complaint conversations in process memory.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
)

// DefaultMaxMessages bounds the history kept per session
const DefaultMaxMessages = 50

type entry struct {
	// lock is a one slot semaphore so that waiting for a session honours context cancellation
	lock    chan struct{}
	session *model.Session
	// refs counts callers holding or waiting for lock; guarded by Store.mu
	refs int
}

var _ interfaces.SessionStore = (*Store)(nil)

// Store is an in-memory session store with per-session mutual exclusion.
// Different sessions never block each other beyond a short map lookup.
type Store struct {
	mu          sync.Mutex
	sessions    map[types.SessionID]*entry
	maxMessages int
	now         func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithMaxMessages keeps only the newest n messages per session. n <= 0 keeps all.
func WithMaxMessages(n int) Option {
	return func(s *Store) {
		s.maxMessages = n
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty Store
func New(opts ...Option) *Store {
	s := &Store{
		sessions:    make(map[types.SessionID]*entry),
		maxMessages: DefaultMaxMessages,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) acquire(ctx context.Context, id types.SessionID) (*entry, error) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{
			lock:    make(chan struct{}, 1),
			session: model.NewSession(id, s.now()),
		}
		s.sessions[id] = e
	}
	e.refs++
	s.mu.Unlock()

	select {
	case e.lock <- struct{}{}:
		return e, nil
	case <-ctx.Done():
		s.mu.Lock()
		e.refs--
		s.mu.Unlock()
		return nil, goerr.Wrap(ctx.Err(), "gave up waiting for session", goerr.V("session_id", id))
	}
}

func (s *Store) release(e *entry) {
	<-e.lock
	s.mu.Lock()
	e.refs--
	s.mu.Unlock()
}

// Do runs fn with exclusive access to the session, creating it if needed.
// The session is marked active before fn runs and its history is trimmed to the
// configured limit afterwards.
func (s *Store) Do(ctx context.Context, id types.SessionID, fn func(sess *model.Session) error) error {
	e, err := s.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer s.release(e)

	if now := s.now(); now.After(e.session.LastActiveAt) {
		e.session.LastActiveAt = now
	}
	err = fn(e.session)
	if s.maxMessages > 0 && len(e.session.Messages) > s.maxMessages {
		trimmed := make([]model.Message, s.maxMessages)
		copy(trimmed, e.session.Messages[len(e.session.Messages)-s.maxMessages:])
		e.session.Messages = trimmed
	}
	return err
}

// GetOrCreate returns a snapshot of the session, creating an empty one if absent.
// If ctx is cancelled while waiting, an empty session is returned without being stored.
func (s *Store) GetOrCreate(ctx context.Context, id types.SessionID) *model.Session {
	var snapshot *model.Session
	if err := s.Do(ctx, id, func(sess *model.Session) error {
		snapshot = sess.Copy()
		return nil
	}); err != nil {
		return model.NewSession(id, s.now())
	}
	return snapshot
}

// Append adds msg to the session history, dropping the oldest messages beyond the limit
func (s *Store) Append(ctx context.Context, id types.SessionID, msg model.Message) error {
	if msg.At.IsZero() {
		msg.At = s.now()
	}
	return s.Do(ctx, id, func(sess *model.Session) error {
		sess.Append(msg, 0)
		return nil
	})
}

// MergeAttributes merges the populated slots of attrs into the session and returns the result
func (s *Store) MergeAttributes(ctx context.Context, id types.SessionID, attrs model.Attributes) (model.Attributes, error) {
	var merged model.Attributes
	err := s.Do(ctx, id, func(sess *model.Session) error {
		sess.Attributes = sess.Attributes.Merge(attrs)
		merged = sess.Attributes
		return nil
	})
	return merged, err
}

// Evict removes sessions whose last activity is before idleBefore.
// Sessions held or awaited by a caller are kept.
func (s *Store) Evict(ctx context.Context, idleBefore time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted int
	for id, e := range s.sessions {
		if e.refs > 0 {
			continue
		}
		if e.session.LastActiveAt.Before(idleBefore) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
