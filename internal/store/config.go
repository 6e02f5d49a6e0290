package store

import "time"

// Drivers supported by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config describes the database connection.
type Config struct {
	Driver        string        `env:"DB_DRIVER" envDefault:"sqlite"`
	DSN           string        `env:"DB_DSN" envDefault:"file:ourApp.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"`
	MaxOpenConns  int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns  int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	RetryAttempts int           `env:"DB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"DB_RETRY_INTERVAL" envDefault:"2s"`
}

// MemoryConfig returns a private in-memory SQLite database, for tests.
func MemoryConfig() Config {
	return Config{
		Driver:        DriverSQLite,
		DSN:           "file::memory:?_pragma=foreign_keys(1)",
		RetryAttempts: 1,
	}
}
