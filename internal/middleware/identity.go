package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/blog/internal/cookie"
	"github.com/dmitrymomot/blog/internal/handler"
	"github.com/dmitrymomot/blog/internal/logger"
	"github.com/dmitrymomot/blog/internal/response"
	"github.com/dmitrymomot/blog/internal/session"
)

type identityContextKey struct{}

// TokenReader reads the raw session token from a request.
type TokenReader interface {
	Get(r *http.Request) (string, error)
}

// TokenVerifier turns a session token into an identity.
type TokenVerifier interface {
	Verify(token string) (session.Identity, error)
}

// IdentityConfig configures the identity middleware.
type IdentityConfig struct {
	Skip     func(ctx handler.Context) bool
	Cookies  TokenReader
	Verifier TokenVerifier
	// Logger receives a debug record for every rejected token.
	Logger *slog.Logger
}

// Identity resolves the session cookie of every request. A missing, expired
// or tampered token yields session.Anonymous; the request always proceeds.
func Identity[C handler.Context](cookies TokenReader, verifier TokenVerifier) handler.Middleware[C] {
	return IdentityWithConfig[C](IdentityConfig{Cookies: cookies, Verifier: verifier})
}

// IdentityWithConfig creates an identity middleware with custom configuration.
// Panics if Cookies or Verifier is nil.
func IdentityWithConfig[C handler.Context](cfg IdentityConfig) handler.Middleware[C] {
	if cfg.Cookies == nil {
		panic("identity middleware: cookie reader is required")
	}
	if cfg.Verifier == nil {
		panic("identity middleware: token verifier is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			id := session.Anonymous
			token, err := cfg.Cookies.Get(ctx.Request())
			if err == nil {
				id, err = cfg.Verifier.Verify(token)
			}
			if err != nil && !errors.Is(err, cookie.ErrCookieNotFound) && !errors.Is(err, session.ErrNoToken) {
				cfg.Logger.DebugContext(ctx, "session token rejected",
					logger.Component("identity"),
					logger.Error(err),
				)
			}

			ctx.SetValue(identityContextKey{}, id)
			return next(ctx)
		}
	}
}

// GetIdentity returns the identity resolved for the request, or
// session.Anonymous.
func GetIdentity(ctx context.Context) session.Identity {
	id, _ := ctx.Value(identityContextKey{}).(session.Identity)
	return id
}

// UserIDExtractor adds the signed-in user's ID to log records.
func UserIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id := GetIdentity(ctx)
	if !id.IsAuthenticated() {
		return slog.Attr{}, false
	}
	return logger.UserID(id.UserID), true
}

// RequireAuthConfig configures the authentication gate.
type RequireAuthConfig struct {
	Skip func(ctx handler.Context) bool
	// RedirectTo is where anonymous visitors are sent (default: "/").
	RedirectTo string
}

// RequireAuth silently redirects anonymous visitors to the home page.
func RequireAuth[C handler.Context]() handler.Middleware[C] {
	return RequireAuthWithConfig[C](RequireAuthConfig{})
}

// RequireAuthWithConfig creates an authentication gate with custom configuration.
func RequireAuthWithConfig[C handler.Context](cfg RequireAuthConfig) handler.Middleware[C] {
	if cfg.RedirectTo == "" {
		cfg.RedirectTo = "/"
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}
			if !GetIdentity(ctx).IsAuthenticated() {
				return response.Redirect(cfg.RedirectTo)
			}
			return next(ctx)
		}
	}
}
