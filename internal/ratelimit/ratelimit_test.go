package ratelimit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blog/internal/ratelimit"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func testConfig(attempts int, window time.Duration) ratelimit.Config {
	cfg := ratelimit.DefaultConfig()
	cfg.Attempts = attempts
	cfg.Window = window
	return cfg
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		store ratelimit.Store
		cfg   ratelimit.Config
	}{
		{"nil store", nil, testConfig(1, time.Minute)},
		{"zero attempts", ratelimit.NewMemoryStore(), testConfig(0, time.Minute)},
		{"zero window", ratelimit.NewMemoryStore(), testConfig(1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ratelimit.New(tt.store, tt.cfg)
			assert.ErrorIs(t, err, ratelimit.ErrInvalidConfig)
		})
	}
}

func TestLimiterMemoryStore(t *testing.T) {
	t.Parallel()

	clock := newClock()
	store := ratelimit.NewMemoryStore(ratelimit.WithMemoryClock(clock.Now))
	limiter, err := ratelimit.New(store, testConfig(3, time.Minute), ratelimit.WithClock(clock.Now))
	require.NoError(t, err)

	ctx := context.Background()

	for i := range 3 {
		res, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed(), "hit %d", i+1)
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, 2-i, res.Remaining)
		assert.Zero(t, res.RetryAfter())
	}

	res, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, time.Minute, res.RetryAfter())

	t.Run("other keys are independent", func(t *testing.T) {
		res, err := limiter.Allow(ctx, "10.0.0.2")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	})

	clock.Advance(30 * time.Second)
	res, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, 30*time.Second, res.RetryAfter())

	clock.Advance(30 * time.Second)
	res, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed(), "a new window starts once the old one ends")
	assert.Equal(t, 2, res.Remaining)

	require.NoError(t, limiter.Reset(ctx, "10.0.0.1"))
	res, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining)
}

func TestLimiterRejectsEmptyKey(t *testing.T) {
	t.Parallel()

	limiter, err := ratelimit.New(ratelimit.NewMemoryStore(), testConfig(1, time.Minute))
	require.NoError(t, err)

	_, err = limiter.Allow(context.Background(), "")
	assert.ErrorIs(t, err, ratelimit.ErrEmptyKey)
}

func TestMemoryStoreCleanup(t *testing.T) {
	t.Parallel()

	clock := newClock()
	store := ratelimit.NewMemoryStore(ratelimit.WithMemoryClock(clock.Now))
	ctx := context.Background()

	_, _, err := store.Increment(ctx, "a", time.Second)
	require.NoError(t, err)
	_, _, err = store.Increment(ctx, "b", time.Hour)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	assert.Equal(t, 1, store.Cleanup())
	assert.Equal(t, 0, store.Cleanup())

	count, _, err := store.Increment(ctx, "b", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemoryStoreConcurrentIncrements(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore()
	limiter, err := ratelimit.New(store, testConfig(50, time.Hour))
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := limiter.Allow(context.Background(), "shared")
			if err == nil && res.Allowed() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestMemoryStoreRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Run(ctx, time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := ratelimit.NewRedisStore(client, "rl:")
	limiter, err := ratelimit.New(store, testConfig(2, time.Minute))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Healthcheck(ctx))

	res, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, 1, res.Remaining)

	assert.True(t, mr.Exists("rl:10.0.0.1"))
	assert.Equal(t, time.Minute, mr.TTL("rl:10.0.0.1"))

	res, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed())

	res, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Positive(t, res.RetryAfter())

	mr.FastForward(time.Minute + time.Second)

	res, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed(), "expired window starts over")
	assert.Equal(t, 1, res.Remaining)

	require.NoError(t, limiter.Reset(ctx, "10.0.0.1"))
	assert.False(t, mr.Exists("rl:10.0.0.1"))
}

func TestRedisStoreUnavailable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	limiter, err := ratelimit.New(ratelimit.NewRedisStore(client, ""), testConfig(2, time.Minute))
	require.NoError(t, err)

	mr.Close()

	_, err = limiter.Allow(context.Background(), "k")
	assert.ErrorIs(t, err, ratelimit.ErrStoreUnavailable)
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	t.Run("memory without redis url", func(t *testing.T) {
		t.Parallel()
		store, err := ratelimit.NewStore(context.Background(), ratelimit.DefaultConfig())
		require.NoError(t, err)
		assert.IsType(t, &ratelimit.MemoryStore{}, store)
	})

	t.Run("redis with url", func(t *testing.T) {
		t.Parallel()
		mr := miniredis.RunT(t)
		cfg := ratelimit.DefaultConfig()
		cfg.RedisURL = "redis://" + mr.Addr() + "/0"

		store, err := ratelimit.NewStore(context.Background(), cfg)
		require.NoError(t, err)
		rs, ok := store.(*ratelimit.RedisStore)
		require.True(t, ok)
		t.Cleanup(func() { _ = rs.Close() })
	})

	t.Run("unset prefix takes the default", func(t *testing.T) {
		t.Parallel()
		mr := miniredis.RunT(t)

		store, err := ratelimit.NewStore(context.Background(), ratelimit.Config{RedisURL: "redis://" + mr.Addr() + "/0"})
		require.NoError(t, err)
		rs, ok := store.(*ratelimit.RedisStore)
		require.True(t, ok)
		t.Cleanup(func() { _ = rs.Close() })

		_, _, err = rs.Increment(context.Background(), "10.0.0.9", time.Minute)
		require.NoError(t, err)
		assert.True(t, mr.Exists(ratelimit.DefaultConfig().KeyPrefix+"10.0.0.9"))
	})

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()
		cfg := ratelimit.DefaultConfig()
		cfg.RedisURL = "http://nope"

		_, err := ratelimit.NewStore(context.Background(), cfg)
		assert.ErrorIs(t, err, ratelimit.ErrInvalidConfig)
	})
}
