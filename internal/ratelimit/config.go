package ratelimit

import "time"

// Config holds the limiter settings.
type Config struct {
	Attempts int           `env:"RATE_LIMIT_ATTEMPTS" envDefault:"10"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	// RedisURL switches counters to Redis when set, e.g. redis://localhost:6379/0.
	RedisURL      string        `env:"REDIS_URL"`
	RetryAttempts int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	KeyPrefix     string        `env:"RATE_LIMIT_KEY_PREFIX" envDefault:"ratelimit:"`
}

// DefaultConfig returns the configuration used when nothing is set in the
// environment.
func DefaultConfig() Config {
	return Config{
		Attempts:      10,
		Window:        time.Minute,
		RetryAttempts: 3,
		RetryInterval: 2 * time.Second,
		KeyPrefix:     "ratelimit:",
	}
}
