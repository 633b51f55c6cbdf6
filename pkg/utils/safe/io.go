// Package safe wraps cleanup calls whose errors can only be logged.
package safe

import (
	"context"
	"io"

	"github.com/junglesafari/safaridesk/pkg/utils/logging"
)

// Close closes closer and logs a failure together with what was being closed.
// A nil closer is ignored.
func Close(ctx context.Context, closer io.Closer, what string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Warn("failed to close "+what, "error", err.Error())
	}
}
