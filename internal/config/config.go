// Package config loads typed configuration from environment variables.
// Each configuration type is parsed once and cached; a .env file in the
// working directory is loaded before the first parse.
//
//	var cfg store.Config
//	config.MustLoad(&cfg)
package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once
	mu         sync.Mutex
	cache      = map[reflect.Type]any{}
)

// Load parses the environment into cfg. Subsequent calls with the same
// type copy the cached value instead of parsing again.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return fmt.Errorf("config: nil target")
	}

	dotenvOnce.Do(func() {
		// A missing .env file is fine; the real environment wins anyway.
		_ = godotenv.Load()
	})

	typ := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[typ]; ok {
		*cfg = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", typ, err)
	}

	cache[typ] = parsed
	*cfg = parsed
	return nil
}

// MustLoad is like Load but panics on error. Use it at startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Parse reads the environment into cfg without touching the cache.
func Parse[T any](cfg *T) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", reflect.TypeFor[T](), err)
	}
	return nil
}
