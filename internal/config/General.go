package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Engine configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// FetchTimeout bounds every single outbound provider call.
	FetchTimeout time.Duration
	// RateLimitPerMinute is the per-client admission threshold for the
	// trailing 60 second window.
	RateLimitPerMinute int
	// CacheTTL is how long an analysis result may be served from cache.
	CacheTTL time.Duration
	// MaxRetries is declared for upstream calls but fetchers do not retry;
	// a failed provider call fails the whole analysis.
	MaxRetries int
	// WebPort is the listen port for the HTTP front controller.
	WebPort string
)

const (
	defaultFetchTimeoutSeconds = 10
	defaultRateLimitPerMinute  = 100
	defaultCacheTTLSeconds     = 300
	defaultMaxRetries          = 3
	defaultWebPort             = "8080"
)

// LoadConfig loads configuration from environment variables and sets the
// global config vars. Every variable has a working default; only malformed
// values are an error.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	fetchTimeoutSeconds, err := getEnvAsIntOrDefault("FETCH_TIMEOUT_SECONDS", defaultFetchTimeoutSeconds)
	if err != nil {
		return err
	}
	FetchTimeout = time.Duration(fetchTimeoutSeconds) * time.Second

	RateLimitPerMinute, err = getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", defaultRateLimitPerMinute)
	if err != nil {
		return err
	}

	cacheTTLSeconds, err := getEnvAsIntOrDefault("CACHE_TTL_SECONDS", defaultCacheTTLSeconds)
	if err != nil {
		return err
	}
	CacheTTL = time.Duration(cacheTTLSeconds) * time.Second

	MaxRetries, err = getEnvAsIntOrDefault("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		return err
	}

	WebPort = getEnvOrDefault("WEB_PORT", defaultWebPort)

	if err := loadEndpointConfig(); err != nil {
		return err
	}

	log.Debug().
		Dur("FetchTimeout", FetchTimeout).
		Int("RateLimitPerMinute", RateLimitPerMinute).
		Dur("CacheTTL", CacheTTL).
		Str("WebPort", WebPort).
		Msg("Configuration loaded successfully.")

	return nil
}

// getEnvOrDefault retrieves a string environment variable, falling back to
// the given default when unset or empty.
func getEnvOrDefault(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// getEnvAsIntOrDefault retrieves an integer environment variable, falling
// back to the given default when unset. A value that is set but not a
// positive integer is an error.
func getEnvAsIntOrDefault(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be an integer")
	}
	if parsed <= 0 {
		return 0, errors.New("environment variable " + key + " must be positive")
	}
	return parsed, nil
}
