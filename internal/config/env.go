package config

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Environment variables read by the CLI.
const (
	EnvConfigPath      = "SCORECARD_CONFIG"
	EnvPort            = "PORT"
	EnvAPIKey          = "GOOGLE_API_KEY"
	EnvCredentialsFile = "GOOGLE_CREDENTIALS_FILE"
	EnvCacheTTL        = "SCORECARD_CACHE_TTL"
	EnvResilience      = "SCORECARD_RESILIENCE"
)

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvDuration parses a duration variable such as "5m", falling back to
// defaultValue when it is unset or malformed.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		log.Warn().Str("key", key).Str("value", value).Msgf("Invalid duration, using %s", defaultValue)
		return defaultValue
	}
	return d
}
