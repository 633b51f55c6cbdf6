// Package async runs fire-and-forget work, such as Slack announcements, outside the
// request that triggered it.
package async

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/junglesafari/safaridesk/pkg/utils/errutil"
	"github.com/junglesafari/safaridesk/pkg/utils/logging"
)

type task struct {
	name    string
	attrs   []any
	timeout time.Duration
}

// Option configures a dispatched task
type Option func(*task)

// WithName labels the task in logs and error reports
func WithName(name string) Option {
	return func(t *task) {
		t.name = name
	}
}

// WithAttrs attaches key-value pairs, e.g. a complaint ID, to every log line of the task
func WithAttrs(args ...any) Option {
	return func(t *task) {
		t.attrs = append(t.attrs, args...)
	}
}

// WithTimeout bounds the task. Zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(t *task) {
		t.timeout = d
	}
}

// Dispatch runs handler in a new goroutine on a context detached from ctx's
// cancellation but carrying its logger. Errors and panics are logged and reported.
// The returned channel is closed when the handler has returned.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error, opts ...Option) <-chan struct{} {
	t := &task{name: "async task"}
	for _, opt := range opts {
		opt(t)
	}

	logger := logging.From(ctx).With("task", t.name)
	if len(t.attrs) > 0 {
		logger = logger.With(t.attrs...)
	}
	bgCtx := logging.With(context.Background(), logger)

	done := make(chan struct{})
	go func() {
		defer close(done)

		runCtx := bgCtx
		if t.timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(bgCtx, t.timeout)
			defer cancel()
		}

		defer func() {
			if r := recover(); r != nil {
				err := goerr.New("panic in async task", goerr.V("panic", r))
				_ = errutil.Handle(bgCtx, err, t.name+" panicked")
			}
		}()

		if err := handler(runCtx); err != nil {
			_ = errutil.Handle(bgCtx, err, t.name+" failed")
		}
	}()
	return done
}
