package config

import (
	"fmt"
	"time"
)

// JWTConfig holds settings for signing and validating access tokens.
type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
	Issuer          string `mapstructure:"issuer"`
}

// Expiration returns the token lifetime
func (c JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// normalize validates the configuration. An empty secret is allowed here
// and rejected by ValidateServer.
func (c *JWTConfig) normalize() error {
	if c.ExpirationHours < 1 {
		return fmt.Errorf("config error: jwt expiration must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	if c.Issuer == "" {
		c.Issuer = "coverme"
	}
	return nil
}
