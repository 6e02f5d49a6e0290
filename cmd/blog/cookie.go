package main

import (
	"time"

	"github.com/dmitrymomot/blog/internal/cookie"
)

// sessionCookies builds the login cookie manager. The cookie expires
// together with the session token it carries.
func sessionCookies(cfg cookie.Config, ttl time.Duration) *cookie.Manager {
	cfg.MaxAge = int(ttl / time.Second)
	return cookie.NewFromConfig(cfg)
}
