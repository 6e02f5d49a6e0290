package middleware

import (
	"maps"

	"github.com/dmitrymomot/blog/internal/handler"
)

// SecurityHeadersConfig lists the security headers to set. Empty values are
// not sent.
type SecurityHeadersConfig struct {
	Skip func(ctx handler.Context) bool

	ContentTypeOptions      string
	FrameOptions            string
	StrictTransportSecurity string
	ContentSecurityPolicy   string
	ReferrerPolicy          string
	PermissionsPolicy       string
	CrossOriginOpenerPolicy string
	CustomHeaders           map[string]string

	// IsDevelopment drops HSTS so plain-HTTP local runs keep working.
	IsDevelopment bool
}

var (
	// DefaultSecurity fits server-rendered pages that load only their own
	// stylesheets and post forms back to the same origin.
	DefaultSecurity = SecurityHeadersConfig{
		ContentTypeOptions:      "nosniff",
		FrameOptions:            "DENY",
		StrictTransportSecurity: "max-age=31536000; includeSubDomains",
		ContentSecurityPolicy:   "default-src 'self'; script-src 'none'; style-src 'self'; img-src 'self' data:; frame-ancestors 'none'; base-uri 'self'; form-action 'self'",
		ReferrerPolicy:          "strict-origin-when-cross-origin",
		PermissionsPolicy:       "geolocation=(), microphone=(), camera=()",
		CrossOriginOpenerPolicy: "same-origin",
	}

	// DevelopmentSecurity is DefaultSecurity without HSTS.
	DevelopmentSecurity = func() SecurityHeadersConfig {
		cfg := DefaultSecurity
		cfg.IsDevelopment = true
		return cfg
	}()
)

// SecurityHeaders sets DefaultSecurity on every response.
func SecurityHeaders[C handler.Context]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](DefaultSecurity)
}

// SecurityHeadersWithConfig creates a security headers middleware with custom
// configuration.
func SecurityHeadersWithConfig[C handler.Context](cfg SecurityHeadersConfig) handler.Middleware[C] {
	headers := map[string]string{
		"X-Content-Type-Options":     cfg.ContentTypeOptions,
		"X-Frame-Options":            cfg.FrameOptions,
		"Content-Security-Policy":    cfg.ContentSecurityPolicy,
		"Referrer-Policy":            cfg.ReferrerPolicy,
		"Permissions-Policy":         cfg.PermissionsPolicy,
		"Cross-Origin-Opener-Policy": cfg.CrossOriginOpenerPolicy,
	}
	if !cfg.IsDevelopment {
		headers["Strict-Transport-Security"] = cfg.StrictTransportSecurity
	}
	maps.Copy(headers, cfg.CustomHeaders)
	maps.DeleteFunc(headers, func(_, v string) bool { return v == "" })

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			// Headers are set before the handler runs so they are present
			// on error pages rendered by the router too.
			h := ctx.ResponseWriter().Header()
			for name, value := range headers {
				h.Set(name, value)
			}
			return next(ctx)
		}
	}
}

// NoStore forbids caching of the response. It is applied to pages that
// depend on the signed-in user.
func NoStore[C handler.Context]() handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			ctx.ResponseWriter().Header().Set("Cache-Control", "no-store")
			return next(ctx)
		}
	}
}

