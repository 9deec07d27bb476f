package config

import (
	"fmt"
	"strings"
	"time"

	"scorecard/internal/retry"
)

type ResilienceConfig struct {
	SheetFetch retry.Config
}

// DefaultResilience fetches each sheet exactly once.
var DefaultResilience = ResilienceConfig{
	SheetFetch: retry.Config{
		MaxRetries: 0,
		Timeout:    15 * time.Second,
	},
}

// PersistentResilience retries transient upstream failures with backoff.
var PersistentResilience = ResilienceConfig{
	SheetFetch: retry.Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
}

// ResilienceFor resolves a preset name as given in SCORECARD_RESILIENCE.
func ResilienceFor(name string) (ResilienceConfig, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return DefaultResilience, nil
	case "persistent":
		return PersistentResilience, nil
	default:
		return ResilienceConfig{}, fmt.Errorf("unknown resilience preset %q", name)
	}
}
