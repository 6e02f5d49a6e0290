package ratelimit

import "errors"

var (
	ErrInvalidConfig    = errors.New("invalid rate limit configuration")
	ErrEmptyKey         = errors.New("rate limit key is empty")
	ErrStoreUnavailable = errors.New("rate limit store unavailable")
)
