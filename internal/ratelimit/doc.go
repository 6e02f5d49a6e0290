// Package ratelimit implements a fixed-window request limiter used to throttle
// login and registration attempts.
//
// Counters live in a Store. MemoryStore keeps them in process and is the
// default; RedisStore shares them between instances through
// github.com/redis/go-redis/v9 and is selected when REDIS_URL is set.
//
//	store, err := ratelimit.NewStore(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	limiter, err := ratelimit.New(store, cfg)
//	if err != nil {
//		return err
//	}
//	res, err := limiter.Allow(ctx, clientIP)
//	if err == nil && !res.Allowed() {
//		// reject, retry after res.RetryAfter()
//	}
package ratelimit
