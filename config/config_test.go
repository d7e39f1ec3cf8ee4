package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T) AppConfig {
	t.Helper()
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := parse(t)

	assert.Equal(t, "http://localhost:8080/api", cfg.Client.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
	assert.Equal(t, StoreBackendFile, cfg.Store.Backend)
	assert.Equal(t, time.Second, cfg.Store.PollInterval)
	assert.Equal(t, "localhost:6379", cfg.Redis.URI)
	assert.Equal(t, "phegonbank", cfg.Redis.KeyPrefix)
	assert.False(t, cfg.Observability.Metrics.IsEnabled())
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.False(t, cfg.IsDev)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://bank.example.com/api/")
	t.Setenv("API_TIMEOUT", "30s")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_URI", "redis.internal:6380")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := parse(t)

	// Trailing slash trimmed so path joins stay single-slash.
	assert.Equal(t, "https://bank.example.com/api", cfg.Client.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, StoreBackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis.internal:6380", cfg.Redis.URI)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestSanitizeGuardrails(t *testing.T) {
	t.Setenv("API_TIMEOUT", "10ms")
	t.Setenv("STORE_POLL_INTERVAL", "1ms")
	t.Setenv("API_BASE_URL", "   ")
	t.Setenv("LOG_LEVEL", "loud")

	cfg := parse(t)

	assert.Equal(t, time.Second, cfg.Client.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Store.PollInterval)
	assert.Equal(t, defaultBaseURL, cfg.Client.BaseURL)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
}

func TestStoreBackendUnmarshal(t *testing.T) {
	var b StoreBackend
	require.NoError(t, b.UnmarshalText([]byte(" Redis ")))
	assert.Equal(t, StoreBackendRedis, b)

	err := b.UnmarshalText([]byte("localstorage"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store backend")
}

func TestStoreBackendInvalidEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "cookie")

	var cfg AppConfig
	require.Error(t, env.Parse(&cfg))
}

func TestMetricsDisabledWithoutAddress(t *testing.T) {
	t.Setenv("OBSERVABILITY_METRICS_ENABLED", "true")
	t.Setenv("OBSERVABILITY_METRICS_STATSD_ADDRESS", "   ")

	cfg := parse(t)
	assert.False(t, cfg.Observability.Metrics.IsEnabled())
}

func TestDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := parse(t)
	assert.True(t, cfg.IsDev)
}
