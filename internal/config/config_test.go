package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"LANGDETECT_MODEL_DIR", "LANGDETECT_VOCAB_PATH", "LANGDETECT_BACKEND",
	"LANGDETECT_ORT_LIB", "LANGDETECT_REMOTE_URL", "LANGDETECT_REMOTE_TIMEOUT",
	"LANGDETECT_LANGUAGES_FILE", "LANGDETECT_HOST", "LANGDETECT_PORT",
	"LANGDETECT_GIN_MODE", "LANGDETECT_MAX_BATCH", "LANGDETECT_LOG_LEVEL",
	"LANGDETECT_LOG_FORMAT", "LANGDETECT_REDIS_ADDR", "LANGDETECT_REDIS_PASSWORD",
	"LANGDETECT_REDIS_DB", "LANGDETECT_CACHE_TTL", "LANGDETECT_MAX_BODY_BYTES",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default configuration", func(t *testing.T) {
		clearEnv(t)

		cfg := Load()

		assert.Equal(t, "models/shallow_model_v1", cfg.Model.Dir)
		assert.Equal(t, "models/assets/labels/vocabulary.txt", cfg.Model.VocabPath)
		assert.Equal(t, BackendONNX, cfg.Model.Backend)
		assert.Equal(t, "", cfg.Model.SharedLibrary)
		assert.Equal(t, 10*time.Second, cfg.Model.RemoteTimeout)
		assert.Equal(t, "", cfg.Model.LanguagesFile)

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "release", cfg.Server.Mode)
		assert.Equal(t, 256, cfg.Server.MaxBatch)
		assert.Equal(t, int64(1<<20), cfg.Server.MaxBody)
		assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())

		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)

		assert.False(t, cfg.Cache.Enabled())
		assert.Equal(t, time.Hour, cfg.Cache.TTL)

		assert.NoError(t, cfg.Validate())
	})

	t.Run("reads from environment variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LANGDETECT_PORT", "9090")
		t.Setenv("LANGDETECT_BACKEND", "REMOTE")
		t.Setenv("LANGDETECT_REMOTE_URL", "http://scorer:8000")
		t.Setenv("LANGDETECT_REMOTE_TIMEOUT", "250ms")
		t.Setenv("LANGDETECT_LOG_LEVEL", "debug")
		t.Setenv("LANGDETECT_REDIS_ADDR", "localhost:6379")
		t.Setenv("LANGDETECT_REDIS_DB", "2")
		t.Setenv("LANGDETECT_CACHE_TTL", "5m")
		t.Setenv("LANGDETECT_MAX_BODY_BYTES", "4096")

		cfg := Load()

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, BackendRemote, cfg.Model.Backend)
		assert.Equal(t, "http://scorer:8000", cfg.Model.RemoteURL)
		assert.Equal(t, 250*time.Millisecond, cfg.Model.RemoteTimeout)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Cache.Enabled())
		assert.Equal(t, 2, cfg.Cache.DB)
		assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, int64(4096), cfg.Server.MaxBody)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("malformed values fall back to defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LANGDETECT_PORT", "eighty")
		t.Setenv("LANGDETECT_MAX_BATCH", "lots")
		t.Setenv("LANGDETECT_REMOTE_TIMEOUT", "soon")

		cfg := Load()

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 256, cfg.Server.MaxBatch)
		assert.Equal(t, 10*time.Second, cfg.Model.RemoteTimeout)
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		clearEnv(t)
		return Load()
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown backend", func(c *Config) { c.Model.Backend = "tflite" }, "unknown backend"},
		{"remote without url", func(c *Config) { c.Model.Backend = BackendRemote }, "LANGDETECT_REMOTE_URL"},
		{"onnx without dir", func(c *Config) { c.Model.Dir = "" }, "LANGDETECT_MODEL_DIR"},
		{"no vocabulary", func(c *Config) { c.Model.VocabPath = "" }, "LANGDETECT_VOCAB_PATH"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "out of range"},
		{"zero batch", func(c *Config) { c.Server.MaxBatch = 0 }, "max batch"},
		{"zero body limit", func(c *Config) { c.Server.MaxBody = 0 }, "max body size"},
		{"cache without ttl", func(c *Config) { c.Cache.Addr = "redis:6379"; c.Cache.TTL = 0 }, "cache TTL"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	t.Run("reports every problem", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = 0
		cfg.Server.MaxBatch = -1

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
		assert.Contains(t, err.Error(), "max batch")
	})
}
