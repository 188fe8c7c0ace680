package async

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/utils/logging"
)

// Dispatch runs fn in its own goroutine, detached from the caller's
// context lifetime. The request-scoped logger is carried over so log
// lines from the background work stay correlated, but cancellation of
// the originating request does not abort the work.
func Dispatch(ctx context.Context, fn func(ctx context.Context) error) {
	bgCtx := context.Background()
	if logger := logging.From(ctx); logger != nil {
		bgCtx = logging.With(bgCtx, logger)
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("recovered panic in background task", "recover", r)
			}
		}()

		if err := fn(bgCtx); err != nil {
			logging.From(bgCtx).Error("background task failed", "error", goerr.Unwrap(err))
		}
	}()
}
