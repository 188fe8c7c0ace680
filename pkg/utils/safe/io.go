package safe

import (
	"context"
	"io"

	"github.com/pressbridge/pressbridge/pkg/utils/logging"
)

// Close closes the closer and logs a failure instead of returning it. Nil
// closers are ignored, so it is safe in deferred cleanup paths.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("failed to close", "error", err)
	}
}
