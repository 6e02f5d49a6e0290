package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	UserID   int64  `json:"userid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a process-wide secret.
// It is safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Codec. A zero TTL falls back to DefaultTTL.
func New(cfg Config, opts ...Option) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, ErrNoSecret
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	c := &Codec{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the lifetime of issued tokens.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue returns a signed token for id that expires one TTL from now.
func (c *Codec) Issue(id Identity) (string, error) {
	if !id.IsAuthenticated() {
		return "", ErrAnonymousIssue
	}

	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:   id.UserID,
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its identity.
// It fails with ErrNoToken, ErrExpiredToken or ErrInvalidToken.
func (c *Codec) Verify(token string) (Identity, error) {
	if token == "" {
		return Anonymous, ErrNoToken
	}

	var cl claims
	parsed, err := jwt.ParseWithClaims(token, &cl,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Anonymous, ErrExpiredToken
	case err != nil:
		return Anonymous, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	case !parsed.Valid:
		return Anonymous, ErrInvalidToken
	}

	id := Identity{UserID: cl.UserID, Username: cl.Username}
	if !id.IsAuthenticated() || id.Username == "" {
		return Anonymous, ErrInvalidToken
	}
	return id, nil
}

// Resolve is Verify with every failure folded into Anonymous.
func (c *Codec) Resolve(token string) Identity {
	id, err := c.Verify(token)
	if err != nil {
		return Anonymous
	}
	return id
}
