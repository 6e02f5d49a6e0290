package middleware

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/blog/internal/handler"
)

// RequestObserver records finished requests.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
	RequestStarted() func()
}

// MetricsConfig configures the metrics middleware.
type MetricsConfig struct {
	Skip     func(ctx handler.Context) bool
	Observer RequestObserver
}

// Metrics records count, latency and in-flight requests per route pattern.
func Metrics[C handler.Context](observer RequestObserver) handler.Middleware[C] {
	return MetricsWithConfig[C](MetricsConfig{Observer: observer})
}

// MetricsWithConfig creates a metrics middleware with custom configuration.
// Panics if Observer is nil.
func MetricsWithConfig[C handler.Context](cfg MetricsConfig) handler.Middleware[C] {
	if cfg.Observer == nil {
		panic("metrics middleware: observer is required")
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			done := cfg.Observer.RequestStarted()
			start := time.Now()
			defer func() {
				if p := recover(); p != nil {
					done()
					panic(p)
				}
			}()
			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				defer done()

				sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
				var err error
				if resp != nil {
					err = resp(sw, r)
				}

				status := sw.status
				if err != nil && !sw.written {
					status = statusOf(err)
				}
				cfg.Observer.ObserveRequest(r.Method, r.Pattern, status, time.Since(start))
				return err
			}
		}
	}
}
