package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blog/internal/handler"
	"github.com/dmitrymomot/blog/internal/middleware"
	"github.com/dmitrymomot/blog/internal/ratelimit"
	"github.com/dmitrymomot/blog/internal/response"
	"github.com/dmitrymomot/blog/internal/router"
)

func newLimiter(t *testing.T, attempts int) *ratelimit.Limiter {
	t.Helper()
	cfg := ratelimit.DefaultConfig()
	cfg.Attempts = attempts
	cfg.Window = time.Minute
	l, err := ratelimit.New(ratelimit.NewMemoryStore(), cfg)
	require.NoError(t, err)
	return l
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	limited := 0
	r := newRouter(middleware.ClientIP[*router.Context]())
	r.With(middleware.RateLimitWithConfig[*router.Context](middleware.RateLimitConfig{
		Limiter:    newLimiter(t, 2),
		SetHeaders: true,
		OnLimited:  func(handler.Context) { limited++ },
	})).Post("/login", func(*router.Context) handler.Response {
		return response.String("ok")
	})

	post := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = remote
		return serve(r, req)
	}

	rec := post("192.0.2.1:1234")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	rec = post("192.0.2.1:5678")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = post("192.0.2.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, 1, limited)

	rec = post("198.51.100.4:1234")
	assert.Equal(t, http.StatusOK, rec.Code, "limits are per client")
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (*ratelimit.Result, error) {
	return nil, errors.New("redis down")
}

func TestRateLimitStoreFailure(t *testing.T) {
	t.Parallel()

	r := newRouter()
	r.With(middleware.RateLimit[*router.Context](brokenLimiter{})).Post("/login", func(*router.Context) handler.Response {
		return response.String("ok")
	})

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimitRequiresLimiter(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		middleware.RateLimitWithConfig[*router.Context](middleware.RateLimitConfig{})
	})
}
