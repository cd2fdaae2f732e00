package weather

import (
	"fmt"
	"time"
)

// Config selects and parameterizes the weather source.
type Config struct {
	// Mode selects the source: "api" or "synthetic".
	Mode string `json:"mode"`
	// APIKey authenticates against the forecast provider. Required in api mode.
	APIKey string `json:"api_key"`
	// BaseURL overrides the provider endpoint, mainly for tests.
	BaseURL string `json:"base_url"`
	// TimeoutSeconds bounds each forecast request.
	TimeoutSeconds int `json:"timeout_seconds"`
	// MinIntervalMS is the minimum delay between provider requests.
	MinIntervalMS int `json:"min_interval_ms"`
	// BreakerTimeoutSeconds is how long the circuit stays open after tripping.
	BreakerTimeoutSeconds int `json:"breaker_timeout_seconds"`
}

// SetDefaults applies fallback values for optional fields.
func (c *Config) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "synthetic"
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	if c.MinIntervalMS <= 0 {
		c.MinIntervalMS = 1000
	}
	if c.BreakerTimeoutSeconds <= 0 {
		c.BreakerTimeoutSeconds = 30
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.Mode {
	case "api":
		if c.APIKey == "" {
			return fmt.Errorf("api_key is required in api mode")
		}
	case "synthetic", "":
	default:
		return fmt.Errorf("unknown weather mode %s", c.Mode)
	}
	return nil
}

func (c Config) timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) minInterval() time.Duration {
	return time.Duration(c.MinIntervalMS) * time.Millisecond
}

func (c Config) breakerTimeout() time.Duration {
	return time.Duration(c.BreakerTimeoutSeconds) * time.Second
}
