package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store counts hits per key inside fixed windows.
type Store interface {
	// Increment records a hit for key and returns the number of hits in the
	// current window together with the moment the window ends.
	Increment(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// Result describes the outcome of a single Allow call.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time

	now time.Time
}

// Allowed reports whether the request fits in the current window.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long a rejected caller should wait. It is zero for
// allowed requests.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(0, r.ResetAt.Sub(r.now))
}

// Limiter allows at most Attempts hits per key in every Window.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a limiter on top of store.
func New(store Store, cfg Config, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidConfig)
	}
	if cfg.Attempts <= 0 {
		return nil, fmt.Errorf("%w: attempts must be positive, got %d", ErrInvalidConfig, cfg.Attempts)
	}
	if cfg.Window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %s", ErrInvalidConfig, cfg.Window)
	}

	l := &Limiter{
		store:  store,
		limit:  cfg.Attempts,
		window: cfg.Window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	count, resetAt, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return &Result{
		Limit:     l.limit,
		Remaining: l.limit - count,
		ResetAt:   resetAt,
		now:       l.now(),
	}, nil
}

// Reset clears the counter for key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}
