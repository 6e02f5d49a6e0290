package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/blog/internal/handler"
	"github.com/dmitrymomot/blog/internal/ratelimit"
	"github.com/dmitrymomot/blog/internal/response"
)

// RateLimiter decides whether a key may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (*ratelimit.Result, error)
}

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	Skip    func(ctx handler.Context) bool
	Limiter RateLimiter
	// KeyExtractor builds the limiter key (default: client IP).
	KeyExtractor func(ctx handler.Context) string
	// ErrorHandler builds the response for rejected requests
	// (default: response.ErrTooManyRequests).
	ErrorHandler func(ctx handler.Context, result *ratelimit.Result) handler.Response
	// OnLimited is called for every rejected request.
	OnLimited func(ctx handler.Context)
	// SetHeaders adds X-RateLimit-* headers to every response.
	SetHeaders bool
}

// RateLimit throttles requests per client IP.
func RateLimit[C handler.Context](limiter RateLimiter) handler.Middleware[C] {
	return RateLimitWithConfig[C](RateLimitConfig{Limiter: limiter, SetHeaders: true})
}

// RateLimitWithConfig creates a rate limiting middleware with custom
// configuration. Panics if Limiter is nil.
func RateLimitWithConfig[C handler.Context](cfg RateLimitConfig) handler.Middleware[C] {
	if cfg.Limiter == nil {
		panic("rate limit middleware: limiter is required")
	}

	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = func(ctx handler.Context) string {
			if ip, ok := GetClientIP(ctx); ok {
				return ip
			}
			return extractIP(ctx.Request(), false)
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(_ handler.Context, _ *ratelimit.Result) handler.Response {
			return response.Error(response.ErrTooManyRequests.WithMessage("Too many attempts. Please try again later."))
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			result, err := cfg.Limiter.Allow(ctx, cfg.KeyExtractor(ctx))
			if err != nil {
				return response.Error(response.ErrServiceUnavailable.WithError(err))
			}

			if !result.Allowed() {
				if cfg.OnLimited != nil {
					cfg.OnLimited(ctx)
				}
				// Headers go straight to the writer so they survive the
				// error handler rendering the rejection.
				if cfg.SetHeaders {
					setRateLimitHeaders(ctx.ResponseWriter(), result)
				}
				return cfg.ErrorHandler(ctx, result)
			}

			resp := next(ctx)
			if !cfg.SetHeaders {
				return resp
			}
			return func(w http.ResponseWriter, r *http.Request) error {
				setRateLimitHeaders(w, result)
				if resp == nil {
					return nil
				}
				return resp(w, r)
			}
		}
	}
}

func setRateLimitHeaders(w http.ResponseWriter, result *ratelimit.Result) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	if retry := result.RetryAfter(); retry > 0 {
		h.Set("Retry-After", strconv.Itoa(int(retry.Seconds()+0.5)))
	}
}
