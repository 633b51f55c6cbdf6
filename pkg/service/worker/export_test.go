package worker

import (
	"context"
	"time"
)

// Sweep runs one eviction pass synchronously
func (w *SessionSweeper) Sweep() int {
	return w.sweep(context.Background())
}

// SetClock replaces the time source used to compute the idle cutoff
func (w *SessionSweeper) SetClock(now func() time.Time) {
	w.now = now
}
