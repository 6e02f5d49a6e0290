package main

import (
	"github.com/dmitrymomot/blog/internal/cookie"
	"github.com/dmitrymomot/blog/internal/ratelimit"
	"github.com/dmitrymomot/blog/internal/server"
	"github.com/dmitrymomot/blog/internal/session"
	"github.com/dmitrymomot/blog/internal/store"
	"github.com/dmitrymomot/blog/internal/telemetry"
)

// Config is the complete application configuration, read from the
// environment (and a .env file, if present).
type Config struct {
	AppName           string `env:"APP_NAME" envDefault:"blog"`
	Env               string `env:"ENV" envDefault:"development"`
	TrustProxyHeaders bool   `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
	MetricsEnabled    bool   `env:"METRICS_ENABLED" envDefault:"true"`

	Server    server.Config
	DB        store.Config
	Cookie    cookie.Config
	Session   session.Config
	RateLimit ratelimit.Config
	Telemetry telemetry.Config
}

func (c Config) development() bool {
	return c.Env == "development"
}
