package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/coverme/internal/llm"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, 90*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 45*time.Second, cfg.LLM.CallTimeout)
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
	assert.Equal(t, 12, cfg.Password.BcryptCost)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 200, cfg.Fetch.MinChars)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COVERME_SERVER_PORT", "9000")
	t.Setenv("COVERME_LLM_PROVIDER", "Anthropic")
	t.Setenv("COVERME_LLM_API_KEY", "sk-test")
	t.Setenv("COVERME_LLM_MODEL_ADVANCED", "claude-opus-4-1")
	t.Setenv("COVERME_LLM_CALL_TIMEOUT", "5s")
	t.Setenv("COVERME_JWT_EXPIRATION_HOURS", "48")
	t.Setenv("COVERME_LOG_FORMAT", "json")
	t.Setenv("COVERME_CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("COVERME_FETCH_USE_BROWSER", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 5*time.Second, cfg.LLM.CallTimeout)
	assert.Equal(t, 48*time.Hour, cfg.JWT.Expiration())
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Fetch.UseBrowser)

	client := cfg.LLM.ClientConfig()
	assert.Equal(t, llm.ProviderAnthropic, client.Provider)
	assert.Equal(t, "claude-opus-4-1", client.GetModel(llm.TierAdvanced))
	assert.Equal(t, "claude-3-5-haiku-latest", client.GetModel(llm.TierLite))
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "3001")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3001, cfg.Server.Port)

	t.Setenv("COVERME_SERVER_PORT", "4000")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port, "explicit variable wins")
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Setenv("PORT", "")
	content := "server:\n  port: 7070\nllm:\n  provider: openai\n  base_url: http://localhost:1234/v1\nlog:\n  level: debug\n"
	path := filepath.Join(t.TempDir(), "coverme.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("COVERME_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "http://localhost:1234/v1", cfg.LLM.ClientConfig().BaseURL)
	assert.Equal(t, "warn", cfg.Log.Level, "environment wins over file")
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/coverme.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
		msg  string
	}{
		{"unknown provider", "COVERME_LLM_PROVIDER", "cohere", "unknown llm provider"},
		{"port out of range", "COVERME_SERVER_PORT", "70000", "port out of range"},
		{"bcrypt too low", "COVERME_PASSWORD_BCRYPT_COST", "9", "bcrypt cost out of range"},
		{"bcrypt too high", "COVERME_PASSWORD_BCRYPT_COST", "15", "bcrypt cost out of range"},
		{"jwt expiration zero", "COVERME_JWT_EXPIRATION_HOURS", "0", "at least 1 hour"},
		{"negative rate", "COVERME_RATELIMIT_REQUESTS_PER_MINUTE", "-1", "non-negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.val)
			cfg, err := Load("")
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestValidateServer(t *testing.T) {
	cfg := &Config{}
	err := cfg.ValidateServer()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
	assert.True(t, errors.Is(err, ErrMissingJWTSecret))
	assert.True(t, errors.Is(err, ErrMissingDatabaseURL))

	cfg.LLM.APIKey = "key"
	cfg.JWT.Secret = "secret"
	cfg.DB.URL = "postgres://localhost/coverme"
	assert.NoError(t, cfg.ValidateServer())
}

func TestValidateLLM(t *testing.T) {
	cfg := &Config{LLM: LLMConfig{APIKey: "   "}}
	assert.ErrorIs(t, cfg.ValidateLLM(), ErrMissingAPIKey)
	cfg.LLM.APIKey = "key"
	assert.NoError(t, cfg.ValidateLLM())
}
