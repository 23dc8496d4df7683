package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "collection_points", cfg.Resource)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 24*time.Hour, cfg.CacheHorizon)
	assert.Equal(t, 30*time.Second, cfg.ProbeInterval)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, ":9812", cfg.MetricsAddr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("REMOTE_URL", "https://proj.example.co")
	t.Setenv("REMOTE_KEY", "secret")
	t.Setenv("REMOTE_RESOURCE", "drop_off_sites")
	t.Setenv("REQUEST_TIMEOUT_MS", "5000")
	t.Setenv("CACHE_HORIZON_HOURS", "48")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg := Load()

	assert.Equal(t, "https://proj.example.co", cfg.RemoteURL)
	assert.Equal(t, "secret", cfg.RemoteKey)
	assert.Equal(t, "drop_off_sites", cfg.Resource)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 48*time.Hour, cfg.CacheHorizon)
	assert.Equal(t, "JSON", cfg.LogFormat)
}

func TestLoad_TimeoutClamping(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_MS", "100")
	assert.Equal(t, MinRequestTimeout, Load().RequestTimeout, "below floor is clamped up")

	t.Setenv("REQUEST_TIMEOUT_MS", "600000")
	assert.Equal(t, MaxRequestTimeout, Load().RequestTimeout, "above ceiling is clamped down")
}

func TestLoad_MalformedIntFallsBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_MS", "not-a-number")
	assert.Equal(t, 3*time.Second, Load().RequestTimeout)
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("SOME_INT", "7")
	assert.Equal(t, 7, getEnvInt("SOME_INT", 1))
	assert.Equal(t, 1, getEnvInt("SOME_INT_MISSING", 1))
}
