// Package config loads runtime configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// MinRequestTimeout guards against timeouts so short every remote call
	// would be classified as a connectivity failure.
	MinRequestTimeout = 500 * time.Millisecond
	MaxRequestTimeout = 60 * time.Second
)

// Config holds all runtime settings for the sync core and the daemon.
type Config struct {
	RemoteURL      string
	RemoteKey      string
	Resource       string
	DataDir        string
	RequestTimeout time.Duration
	CacheHorizon   time.Duration
	ProbeInterval  time.Duration
	LogLevel       string
	LogFormat      string
	MetricsAddr    string
}

// Load reads configuration from the environment, honoring a local .env
// file if present. Every value has a working default except the remote
// endpoint and key, which the host must provide.
func Load() *Config {
	_ = godotenv.Load()

	timeout := getEnvDuration("REQUEST_TIMEOUT_MS", 3000, time.Millisecond)
	if timeout < MinRequestTimeout {
		slog.Warn("REQUEST_TIMEOUT_MS below safety floor, clamping", "requested", timeout, "floor", MinRequestTimeout)
		timeout = MinRequestTimeout
	} else if timeout > MaxRequestTimeout {
		timeout = MaxRequestTimeout
	}

	return &Config{
		RemoteURL:      getEnv("REMOTE_URL", ""),
		RemoteKey:      getEnv("REMOTE_KEY", ""),
		Resource:       getEnv("REMOTE_RESOURCE", "collection_points"),
		DataDir:        getEnv("DATA_DIR", defaultDataDir()),
		RequestTimeout: timeout,
		CacheHorizon:   getEnvDuration("CACHE_HORIZON_HOURS", 24, time.Hour),
		ProbeInterval:  getEnvDuration("PROBE_INTERVAL_SEC", 30, time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		LogFormat:      getEnv("LOG_FORMAT", "TEXT"),
		MetricsAddr:    getEnv("METRICS_ADDR", ":9812"),
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + string(os.PathSeparator) + "ecoponto"
	}
	return "./data"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback int, unit time.Duration) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * unit
}
