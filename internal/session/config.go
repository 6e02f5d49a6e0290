package session

import "time"

// DefaultTTL is the lifetime of a session token.
const DefaultTTL = 24 * time.Hour

// Config holds the signing secret and the token lifetime.
type Config struct {
	Secret string        `env:"JWTSECRET,required"`
	TTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}
