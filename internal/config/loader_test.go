package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Run("set variable wins over default", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "sk-live")
		assert.Equal(t, "key: sk-live", expandEnv("key: ${TEST_API_KEY:sk-fallback}"))
	})

	t.Run("default used when unset", func(t *testing.T) {
		assert.Equal(t, "key: sk-fallback", expandEnv("key: ${UNSET_VAR_FOR_TEST:sk-fallback}"))
	})

	t.Run("empty default", func(t *testing.T) {
		assert.Equal(t, "key: ", expandEnv("key: ${UNSET_VAR_FOR_TEST:}"))
	})

	t.Run("no default keeps placeholder", func(t *testing.T) {
		assert.Equal(t, "key: ${UNSET_VAR_FOR_TEST}", expandEnv("key: ${UNSET_VAR_FOR_TEST}"))
	})

	t.Run("multiple placeholders", func(t *testing.T) {
		t.Setenv("TEST_HOST", "redis.internal")
		out := expandEnv("host: ${TEST_HOST:localhost}\nport: ${TEST_PORT:6379}")
		assert.Equal(t, "host: redis.internal\nport: 6379", out)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Chunking: ChunkingConfig{ChunkSizeTokens: 4000, ContextThreshold: 0.7},
		}
	}

	t.Run("accepts sane values", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("threshold must be in (0,1)", func(t *testing.T) {
		cfg := valid()
		cfg.Chunking.ContextThreshold = 1.0
		require.Error(t, cfg.Validate())

		cfg.Chunking.ContextThreshold = 0
		require.Error(t, cfg.Validate())
	})

	t.Run("chunk size must be positive", func(t *testing.T) {
		cfg := valid()
		cfg.Chunking.ChunkSizeTokens = 0
		require.Error(t, cfg.Validate())
	})
}
