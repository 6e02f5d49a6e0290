package cookie

import "net/http"

// Config provides environment-based configuration for the cookie manager.
// The defaults are the attributes of the login cookie: HttpOnly, Secure and
// SameSite=Strict.
type Config struct {
	Name   string `env:"COOKIE_NAME" envDefault:"ourSimpleApp"`
	Path   string `env:"COOKIE_PATH" envDefault:"/"`
	Domain string `env:"COOKIE_DOMAIN" envDefault:""`

	// MaxAge is not read from the environment. The login cookie lives as
	// long as the session token it carries; zero keeps the 24 hour default.
	MaxAge int

	Secure   bool          `env:"COOKIE_SECURE" envDefault:"true"`
	HttpOnly bool          `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	SameSite http.SameSite `env:"COOKIE_SAME_SITE" envDefault:"3"` // SameSiteStrictMode
	MaxSize  int           `env:"COOKIE_MAX_SIZE" envDefault:"4096"`
}

// NewFromConfig creates a Manager from configuration.
// Zero-valued fields keep the manager defaults.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := make([]Option, 0, 6)

	if cfg.Path != "" {
		configOpts = append(configOpts, WithPath(cfg.Path))
	}
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}
	if cfg.MaxAge != 0 {
		configOpts = append(configOpts, WithMaxAge(cfg.MaxAge))
	}
	configOpts = append(configOpts, WithSecure(cfg.Secure), WithHTTPOnly(cfg.HttpOnly))
	if cfg.SameSite != 0 {
		configOpts = append(configOpts, WithSameSite(cfg.SameSite))
	}

	m := New(cfg.Name, append(configOpts, opts...)...)
	if cfg.MaxSize > 0 {
		m.maxSize = cfg.MaxSize
	}
	return m
}
