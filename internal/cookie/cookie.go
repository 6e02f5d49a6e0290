package cookie

import (
	"errors"
	"net/http"
	"time"
)

const (
	// DefaultName is the name of the login cookie.
	DefaultName = "ourSimpleApp"
	// MaxCookieSize is the maximum size for a cookie (4KB).
	MaxCookieSize = 4096
)

// Manager builds, reads and clears a single named cookie.
type Manager struct {
	name     string
	defaults Options
	maxSize  int
}

// New creates a manager for the named cookie. An empty name uses DefaultName.
func New(name string, opts ...Option) *Manager {
	if name == "" {
		name = DefaultName
	}

	defaults := Options{
		Path:     "/",
		MaxAge:   24 * 60 * 60,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	for _, opt := range opts {
		opt(&defaults)
	}

	return &Manager{
		name:     name,
		defaults: defaults,
		maxSize:  MaxCookieSize,
	}
}

// Name returns the cookie name.
func (m *Manager) Name() string {
	return m.name
}

// Cookie builds the cookie holding value, ready for response.WithCookie.
func (m *Manager) Cookie(value string) (*http.Cookie, error) {
	c := &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   m.defaults.MaxAge,
		Secure:   m.defaults.Secure,
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
	}

	if size := len(c.String()); size > m.maxSize {
		return nil, ErrCookieTooLarge{Name: m.name, Size: size, Max: m.maxSize}
	}
	return c, nil
}

// Get retrieves the cookie value from the request.
func (m *Manager) Get(r *http.Request) (string, error) {
	c, err := r.Cookie(m.name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Expired returns a cookie that makes the browser drop the stored one.
func (m *Manager) Expired() *http.Cookie {
	return &http.Cookie{
		Name:     m.name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.defaults.Secure,
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
	}
}
