package worker

import (
	"context"
	"time"

	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
	"github.com/junglesafari/safaridesk/pkg/utils/logging"
)

// SessionSweeper periodically drops chat sessions that have been idle longer than the TTL.
//
// Sessions live in process memory only, so each server instance sweeps its own store.
type SessionSweeper struct {
	store    interfaces.SessionStore
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSessionSweeper creates a worker that evicts sessions idle for longer than ttl every interval
func NewSessionSweeper(store interfaces.SessionStore, ttl, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		store:    store,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop without blocking
func (w *SessionSweeper) Start(ctx context.Context) error {
	logging.Default().Info("Session sweeper starting",
		"ttl", w.ttl.String(),
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *SessionSweeper) Stop() {
	logging.Default().Info("Session sweeper stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Session sweeper stopped")
}

func (w *SessionSweeper) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Session sweeper context cancelled")
			return
		}
	}
}

// sweep performs a single eviction pass and returns the number of sessions removed
func (w *SessionSweeper) sweep(ctx context.Context) int {
	evicted := w.store.Evict(ctx, w.now().Add(-w.ttl))
	if evicted > 0 {
		logging.Default().Info("Evicted idle sessions",
			"count", evicted,
			"remaining", w.store.Len())
	}
	return evicted
}
