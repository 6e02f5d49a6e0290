package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/blog/internal/handler"
	"github.com/dmitrymomot/blog/internal/logger"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	Skip   func(ctx handler.Context) bool
	Logger *slog.Logger
	// LogLevel for successful requests (default: slog.LevelInfo). Client
	// errors are logged at warn level and server errors at error level.
	LogLevel slog.Level
	// Component is the value of the component attribute (default: "http").
	Component string
	// SlowRequestThreshold marks slower requests and raises them to warn
	// level (default: 3s).
	SlowRequestThreshold time.Duration
}

// Logging logs one record per request once its response is written.
func Logging[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{Logger: log})
}

// LoggingWithConfig creates a logging middleware with custom configuration.
func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 3 * time.Second
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

				var err error
				if resp != nil {
					err = resp(sw, r)
				}
				duration := time.Since(start)

				attrs := []slog.Attr{
					logger.Component(cfg.Component),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.Duration(duration),
				}
				if ip, ok := GetClientIP(r.Context()); ok {
					attrs = append(attrs, logger.ClientIP(ip))
				}
				if ua := r.UserAgent(); ua != "" {
					attrs = append(attrs, logger.UserAgent(ua))
				}

				// Errors go to the router error handler, which writes the
				// final status after this closure returns.
				status := sw.status
				if err != nil {
					attrs = append(attrs, logger.Error(err))
					if !sw.written {
						status = statusOf(err)
					}
				}
				attrs = append(attrs, logger.StatusCode(status))

				level := cfg.LogLevel
				switch {
				case status >= http.StatusInternalServerError:
					level = slog.LevelError
				case status >= http.StatusBadRequest:
					level = slog.LevelWarn
				case duration > cfg.SlowRequestThreshold:
					level = slog.LevelWarn
					attrs = append(attrs, slog.Bool("slow_request", true))
				}

				cfg.Logger.LogAttrs(r.Context(), level, "request completed", attrs...)
				return err
			}
		}
	}
}

// statusWriter captures the status code written by a response.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
