package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blog/internal/config"
)

type cachedConfig struct {
	Name string `env:"CONFIG_TEST_CACHED_NAME" envDefault:"default"`
}

type parsedConfig struct {
	Addr    string        `env:"CONFIG_TEST_ADDR" envDefault:":3000"`
	Timeout time.Duration `env:"CONFIG_TEST_TIMEOUT" envDefault:"5s"`
	Secret  string        `env:"CONFIG_TEST_SECRET,required"`
}

func TestLoadCachesPerType(t *testing.T) {
	t.Setenv("CONFIG_TEST_CACHED_NAME", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Name)

	t.Setenv("CONFIG_TEST_CACHED_NAME", "second")

	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Name)
}

func TestParse(t *testing.T) {
	t.Run("defaults and values", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_SECRET", "s3cr3t")
		t.Setenv("CONFIG_TEST_TIMEOUT", "1m")

		var cfg parsedConfig
		require.NoError(t, config.Parse(&cfg))
		assert.Equal(t, ":3000", cfg.Addr)
		assert.Equal(t, time.Minute, cfg.Timeout)
		assert.Equal(t, "s3cr3t", cfg.Secret)
	})

	t.Run("missing required", func(t *testing.T) {
		var cfg parsedConfig
		assert.Error(t, config.Parse(&cfg))
	})
}

func TestMustLoadPanicsOnError(t *testing.T) {
	type brokenConfig struct {
		Missing string `env:"CONFIG_TEST_NEVER_SET_VARIABLE,required"`
	}

	assert.Panics(t, func() {
		var cfg brokenConfig
		config.MustLoad(&cfg)
	})
}
