// Package health provides liveness and readiness endpoints.
package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/blog/internal/handler"
	"github.com/dmitrymomot/blog/internal/logger"
	"github.com/dmitrymomot/blog/internal/response"
)

// Check verifies a single dependency.
type Check func(ctx context.Context) error

// DefaultCheckTimeout bounds each readiness check.
const DefaultCheckTimeout = 2 * time.Second

// Liveness reports that the process is up. It never touches dependencies.
func Liveness[C handler.Context](C) handler.Response {
	return response.WithCache(response.String("ALIVE"), 0)
}

// Readiness runs every check and answers 503 on the first failure.
func Readiness[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	if log == nil {
		log = logger.Discard()
	}

	return func(ctx C) handler.Response {
		for _, check := range checks {
			checkCtx, cancel := context.WithTimeout(ctx, DefaultCheckTimeout)
			err := check(checkCtx)
			cancel()
			if err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component("health"),
					logger.Error(err),
				)
				return response.Error(response.ErrServiceUnavailable.WithError(err))
			}
		}

		return response.WithCache(response.String("READY"), 0)
	}
}
