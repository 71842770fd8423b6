// Package config loads service configuration from COVERME_* environment
// variables and an optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/coverme/internal/llm"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "COVERME"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	Password  PasswordConfig
	LLM       LLMConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Fetch     FetchConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// LLMConfig selects the model provider and per-tier models.
type LLMConfig struct {
	Provider      string        `mapstructure:"provider"`
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	ModelLite     string        `mapstructure:"model_lite"`
	ModelStandard string        `mapstructure:"model_standard"`
	ModelAdvanced string        `mapstructure:"model_advanced"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CallTimeout   time.Duration `mapstructure:"call_timeout"`
	MaxTokens     int           `mapstructure:"max_tokens"`
}

// ClientConfig builds the llm package config: provider defaults overlaid
// with any explicitly configured models.
func (c LLMConfig) ClientConfig() *llm.Config {
	cfg := llm.DefaultConfigFor(llm.Provider(c.Provider))
	cfg = cfg.WithModel(llm.TierLite, c.ModelLite).
		WithModel(llm.TierStandard, c.ModelStandard).
		WithModel(llm.TierAdvanced, c.ModelAdvanced)
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if c.Timeout > 0 {
		cfg.Timeout = c.Timeout
	}
	if c.MaxTokens > 0 {
		cfg.MaxTokens = c.MaxTokens
	}
	return cfg
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimitConfig sets per-client token bucket sizes.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"`
	Burst             int     `mapstructure:"burst"`
	AIRequestsPerMin  float64 `mapstructure:"ai_requests_per_minute"`
	AIBurst           int     `mapstructure:"ai_burst"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FetchConfig controls job posting retrieval by URL.
type FetchConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	UseBrowser bool          `mapstructure:"use_browser"`
	MinChars   int           `mapstructure:"min_chars"`
}

// ErrMissingAPIKey is returned when no LLM API key is configured
var ErrMissingAPIKey = errors.New("COVERME_LLM_API_KEY is required")

// ErrMissingJWTSecret is returned when the server starts without a signing secret
var ErrMissingJWTSecret = errors.New("COVERME_JWT_SECRET is required")

// ErrMissingDatabaseURL is returned when the server starts without a database
var ErrMissingDatabaseURL = errors.New("COVERME_DB_URL is required")

var envBindings = map[string]string{
	"server.port":                      "COVERME_SERVER_PORT",
	"server.read_timeout":              "COVERME_SERVER_READ_TIMEOUT",
	"server.write_timeout":             "COVERME_SERVER_WRITE_TIMEOUT",
	"db.url":                           "COVERME_DB_URL",
	"db.max_conns":                     "COVERME_DB_MAX_CONNS",
	"jwt.secret":                       "COVERME_JWT_SECRET",
	"jwt.expiration_hours":             "COVERME_JWT_EXPIRATION_HOURS",
	"jwt.issuer":                       "COVERME_JWT_ISSUER",
	"password.bcrypt_cost":             "COVERME_PASSWORD_BCRYPT_COST",
	"password.pepper":                  "COVERME_PASSWORD_PEPPER",
	"llm.provider":                     "COVERME_LLM_PROVIDER",
	"llm.api_key":                      "COVERME_LLM_API_KEY",
	"llm.base_url":                     "COVERME_LLM_BASE_URL",
	"llm.model_lite":                   "COVERME_LLM_MODEL_LITE",
	"llm.model_standard":               "COVERME_LLM_MODEL_STANDARD",
	"llm.model_advanced":               "COVERME_LLM_MODEL_ADVANCED",
	"llm.timeout":                      "COVERME_LLM_TIMEOUT",
	"llm.call_timeout":                 "COVERME_LLM_CALL_TIMEOUT",
	"llm.max_tokens":                   "COVERME_LLM_MAX_TOKENS",
	"log.level":                        "COVERME_LOG_LEVEL",
	"log.format":                       "COVERME_LOG_FORMAT",
	"ratelimit.enabled":                "COVERME_RATELIMIT_ENABLED",
	"ratelimit.requests_per_minute":    "COVERME_RATELIMIT_REQUESTS_PER_MINUTE",
	"ratelimit.burst":                  "COVERME_RATELIMIT_BURST",
	"ratelimit.ai_requests_per_minute": "COVERME_RATELIMIT_AI_REQUESTS_PER_MINUTE",
	"ratelimit.ai_burst":               "COVERME_RATELIMIT_AI_BURST",
	"cors.allowed_origins":             "COVERME_CORS_ALLOWED_ORIGINS",
	"fetch.timeout":                    "COVERME_FETCH_TIMEOUT",
	"fetch.use_browser":                "COVERME_FETCH_USE_BROWSER",
	"fetch.min_chars":                  "COVERME_FETCH_MIN_CHARS",
}

// Load reads configuration from the environment and, when path is not
// empty, from a config file (any format viper understands). Environment
// variables win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "90s")

	v.SetDefault("db.url", "")
	v.SetDefault("db.max_conns", 10)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "coverme")

	v.SetDefault("password.bcrypt_cost", 12)
	v.SetDefault("password.pepper", "")

	v.SetDefault("llm.provider", string(llm.ProviderGemini))
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model_lite", "")
	v.SetDefault("llm.model_standard", "")
	v.SetDefault("llm.model_advanced", "")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.call_timeout", "45s")
	v.SetDefault("llm.max_tokens", 2048)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_minute", 120)
	v.SetDefault("ratelimit.burst", 20)
	v.SetDefault("ratelimit.ai_requests_per_minute", 10)
	v.SetDefault("ratelimit.ai_burst", 3)

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("fetch.timeout", "30s")
	v.SetDefault("fetch.use_browser", false)
	v.SetDefault("fetch.min_chars", 200)

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	port := v.GetInt("server.port")
	// hosting platforms export PORT; the explicit variable still wins
	if p := os.Getenv("PORT"); p != "" && os.Getenv("COVERME_SERVER_PORT") == "" {
		if _, err := fmt.Sscanf(p, "%d", &port); err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", p, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         port,
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		DB: DBConfig{
			URL:      v.GetString("db.url"),
			MaxConns: v.GetInt32("db.max_conns"),
		},
		JWT: JWTConfig{
			Secret:          v.GetString("jwt.secret"),
			ExpirationHours: v.GetInt("jwt.expiration_hours"),
			Issuer:          v.GetString("jwt.issuer"),
		},
		Password: PasswordConfig{
			BcryptCost: v.GetInt("password.bcrypt_cost"),
			Pepper:     v.GetString("password.pepper"),
		},
		LLM: LLMConfig{
			Provider:      strings.ToLower(strings.TrimSpace(v.GetString("llm.provider"))),
			APIKey:        v.GetString("llm.api_key"),
			BaseURL:       v.GetString("llm.base_url"),
			ModelLite:     v.GetString("llm.model_lite"),
			ModelStandard: v.GetString("llm.model_standard"),
			ModelAdvanced: v.GetString("llm.model_advanced"),
			Timeout:       v.GetDuration("llm.timeout"),
			CallTimeout:   v.GetDuration("llm.call_timeout"),
			MaxTokens:     v.GetInt("llm.max_tokens"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           v.GetBool("ratelimit.enabled"),
			RequestsPerMinute: v.GetFloat64("ratelimit.requests_per_minute"),
			Burst:             v.GetInt("ratelimit.burst"),
			AIRequestsPerMin:  v.GetFloat64("ratelimit.ai_requests_per_minute"),
			AIBurst:           v.GetInt("ratelimit.ai_burst"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
		},
		Fetch: FetchConfig{
			Timeout:    v.GetDuration("fetch.timeout"),
			UseBrowser: v.GetBool("fetch.use_browser"),
			MinChars:   v.GetInt("fetch.min_chars"),
		},
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize checks value ranges; required secrets are checked by the
// Validate* methods so offline commands can run without them.
func (c *Config) normalize() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: server port out of range: %d", c.Server.Port)
	}
	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderGemini, llm.ProviderAnthropic, llm.ProviderOpenAI:
	default:
		return fmt.Errorf("config error: unknown llm provider %q", c.LLM.Provider)
	}
	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.AIRequestsPerMin < 0 {
		return fmt.Errorf("config error: rate limits must be non-negative")
	}
	if c.Fetch.MinChars < 0 {
		return fmt.Errorf("config error: fetch min_chars must be non-negative")
	}
	if err := c.JWT.normalize(); err != nil {
		return err
	}
	return c.Password.normalize()
}

// ValidateLLM fails when no API key is configured
func (c *Config) ValidateLLM() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// ValidateServer checks everything the HTTP service needs at startup.
func (c *Config) ValidateServer() error {
	var errs []error
	if err := c.ValidateLLM(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}
	if strings.TrimSpace(c.DB.URL) == "" {
		errs = append(errs, ErrMissingDatabaseURL)
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
