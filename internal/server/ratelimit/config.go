package ratelimit

import (
	"time"

	"github.com/jonathan/coverme/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	DefaultBurst    int
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	EndpointConfigs []EndpointConfig
}

// FromConfig builds the limiter configuration from application settings.
// Model-backed routes get the stricter AI limits.
func FromConfig(cfg config.RateLimitConfig) *Config {
	if !cfg.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    int(cfg.RequestsPerMinute),
		DefaultWindow:   time.Minute,
		DefaultBurst:    cfg.Burst,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		EndpointConfigs: AIEndpointConfigs(int(cfg.AIRequestsPerMin), cfg.AIBurst),
	}
}

// AIEndpointConfigs returns limits for routes that call a model or fetch
// remote pages.
func AIEndpointConfigs(perMinute, burst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/cover-letters/parse", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: burst},
		{Path: "/cover-letters/generate", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: burst},
		{Path: "/job-descriptions/fetch", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: burst},
		// brute-force protection
		{Path: "/auth/login", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: burst},
		{Path: "/auth/register", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: burst},
	}
}
