package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldstack/billing/pkg/config"
)

type serverConfig struct {
	Host string `env:"TEST_CFG_HOST" envDefault:"localhost"`
	Port int    `env:"TEST_CFG_PORT" envDefault:"8080"`
}

type workerConfig struct {
	Concurrency int `env:"TEST_CFG_CONCURRENCY" envDefault:"4"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 8080, cfg.Port)
	})

	t.Run("returns cached value on repeated load", func(t *testing.T) {
		var first serverConfig
		require.NoError(t, config.Load(&first))

		// Changing the environment after the first load must not be
		// visible to later loads of the same type.
		t.Setenv("TEST_CFG_PORT", "9999")

		var second serverConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first, second)
	})

	t.Run("reads environment for a fresh type", func(t *testing.T) {
		t.Setenv("TEST_CFG_CONCURRENCY", "16")

		var cfg workerConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 16, cfg.Concurrency)
	})

	t.Run("rejects nil pointer", func(t *testing.T) {
		err := config.Load[serverConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})
}
