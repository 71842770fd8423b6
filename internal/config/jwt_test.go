package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTConfig_Normalize(t *testing.T) {
	tests := []struct {
		name    string
		hours   int
		wantErr bool
	}{
		{"minimum expiration 1 hour", 1, false},
		{"default expiration", 24, false},
		{"one week", 168, false},
		{"zero hours", 0, true},
		{"negative hours", -5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := JWTConfig{Secret: "s", ExpirationHours: tt.hours}
			err := cfg.normalize()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, time.Duration(tt.hours)*time.Hour, cfg.Expiration())
		})
	}
}

func TestJWTConfig_DefaultIssuer(t *testing.T) {
	cfg := JWTConfig{ExpirationHours: 1}
	require.NoError(t, cfg.normalize())
	assert.Equal(t, "coverme", cfg.Issuer)
}
