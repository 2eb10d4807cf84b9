package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "quotesync", cfg.App.Name)
	assert.Equal(t, "dev", cfg.App.Version)
	assert.Equal(t, "local", cfg.App.Environment)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, int64(DefaultMaxRequestSize), cfg.Server.MaxRequestSize)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "quotesync", cfg.Telemetry.ServiceName)
	assert.InDelta(t, 1.0, cfg.Telemetry.SamplingRate, 0.0001)
}

func TestLoad_ClientDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, DefaultClientRetryMaxAttempts, cfg.Client.Retry.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Client.Retry.InitialInterval)
	assert.Equal(t, 5*time.Second, cfg.Client.Retry.MaxInterval)
	assert.InDelta(t, DefaultClientRetryMultiplier, cfg.Client.Retry.Multiplier, 0.0001)
	assert.InDelta(t, DefaultClientRetryJitterFactor, cfg.Client.Retry.JitterFactor, 0.0001)

	assert.Equal(t, DefaultClientCircuitMaxFailures, cfg.Client.CircuitBreaker.MaxFailures)
	assert.Equal(t, 30*time.Second, cfg.Client.CircuitBreaker.Timeout)
	assert.Equal(t, DefaultClientCircuitHalfOpenLimit, cfg.Client.CircuitBreaker.HalfOpenLimit)
}

func TestLoad_ServiceDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://store.quotably.io", cfg.Services.Store.BaseURL)
	assert.Equal(t, "quote-store", cfg.Services.Store.Name)
	assert.Equal(t, "https://identity.quotably.io", cfg.Services.Identity.BaseURL)
	assert.Equal(t, "identity", cfg.Services.Identity.Name)
	assert.Equal(t, "https://images.quotably.io", cfg.Services.ImageHost.BaseURL)
	assert.Equal(t, "image-host", cfg.Services.ImageHost.Name)
}

func TestLoad_StorageDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "./data/quotes.db", cfg.Cache.Path)

	assert.Equal(t, "localhost:9000", cfg.Blob.Endpoint)
	assert.Equal(t, "author-images", cfg.Blob.Bucket)
	assert.False(t, cfg.Blob.UseSSL)

	assert.Equal(t, "author-images", cfg.Images.UploadPreset)
	assert.Equal(t, DefaultImageListConcurrency, cfg.Images.ListConcurrency)
}

func TestLoad_LogFileDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.Log.File.Enabled)
	assert.Equal(t, "./logs/quotesync.log", cfg.Log.File.Path)
	assert.Equal(t, DefaultLogFileMaxSizeMB, cfg.Log.File.MaxSizeMB)
	assert.Equal(t, DefaultLogFileMaxBackups, cfg.Log.File.MaxBackups)
	assert.Equal(t, DefaultLogFileMaxAgeDays, cfg.Log.File.MaxAgeDays)
	assert.True(t, cfg.Log.File.Compress)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "warn")
	t.Setenv("APP_APP_ENVIRONMENT", "qa")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "qa", cfg.App.Environment)
}

func TestLoad_EnvBoolOverride(t *testing.T) {
	t.Setenv("APP_TELEMETRY_ENABLED", "true")
	t.Setenv("APP_TELEMETRY_ENDPOINT", "localhost:4317")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.Endpoint)
}

func TestLoad_EnvDurationOverride(t *testing.T) {
	t.Setenv("APP_CLIENT_TIMEOUT", "5s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
}

func TestLoad_MissingProfileIsNotAnError(t *testing.T) {
	cfg, err := Load("nonexistent")
	require.NoError(t, err)
	assert.Equal(t, "quotesync", cfg.App.Name)
}
