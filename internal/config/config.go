// Package config provides gateway configuration with multi-source priority.
//
// Sources (highest to lowest):
//  1. Environment variables (SYAOS_* prefix)
//  2. Config file (~/.syaos/config.yaml or ./config.yaml)
//  3. Defaults
//
// Categories:
//   - HTTP: listen address, CORS origins, proxy trust
//   - Auth: HMAC token secret, grace period
//   - Rate: per-identity message ceilings and window
//   - AI: provider, model name
//   - Storage: optional PostgreSQL DSN for the VFS stores
//   - Services: applet catalog and music service endpoints
//
// Secrets are never logged. Validation uses sentinel errors so callers can
// branch with errors.Is().
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAuthSecret indicates the token HMAC secret is not set.
	ErrMissingAuthSecret = errors.New("missing auth secret")

	// ErrWeakAuthSecret indicates the token HMAC secret is too short.
	ErrWeakAuthSecret = errors.New("auth secret must be at least 32 bytes")

	// ErrInvalidRateLimit indicates a rate ceiling or window is out of range.
	ErrInvalidRateLimit = errors.New("invalid rate limit")

	// ErrInvalidModelName indicates the model name is empty or malformed.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidAddr indicates the HTTP listen address is malformed.
	ErrInvalidAddr = errors.New("invalid listen address")
)

// Supported AI providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default values applied when neither the environment nor the config file
// sets a key.
const (
	DefaultAddr            = "127.0.0.1:3600"
	DefaultModel           = "gemini-2.5-flash"
	DefaultAuthedLimit     = 50
	DefaultAnonLimit       = 10
	DefaultRateWindow      = 5 * time.Hour
	DefaultTokenGrace      = time.Hour
	DefaultCatalogBaseURL  = "https://os.sya.page/api/applets"
	DefaultMusicBaseURL    = "https://os.sya.page/api/music"
	DefaultMaxToolSteps    = 10
	DefaultRequestBodyMax  = 2 << 20 // state snapshots can carry generated page HTML
	DefaultServiceTimeout  = 10 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

// Config holds all gateway configuration.
type Config struct {
	// HTTP
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy"`

	// Auth
	AuthSecret string        `mapstructure:"auth_secret"`
	TokenGrace time.Duration `mapstructure:"token_grace"`

	// Rate limiting (user-authored messages per window)
	AuthedLimit int           `mapstructure:"authed_limit"`
	AnonLimit   int           `mapstructure:"anon_limit"`
	RateWindow  time.Duration `mapstructure:"rate_window"`

	// AI
	Provider     string `mapstructure:"provider"`
	ModelName    string `mapstructure:"model_name"`
	MaxToolSteps int    `mapstructure:"max_tool_steps"`

	// Storage: empty DSN means the in-memory VFS stores are used.
	PostgresURL string `mapstructure:"postgres_url"`

	// External services
	CatalogBaseURL string        `mapstructure:"catalog_base_url"`
	MusicBaseURL   string        `mapstructure:"music_base_url"`
	ServiceTimeout time.Duration `mapstructure:"service_timeout"`
}

// Load reads configuration from defaults, an optional config file, and the
// environment, in ascending priority.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := configDir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("SYAOS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No config file is fine: defaults + env carry the day.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every default value on the given viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", DefaultAddr)
	// Empty defaults keep env-only keys visible to Unmarshal.
	v.SetDefault("auth_secret", "")
	v.SetDefault("postgres_url", "")
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("trust_proxy", false)
	v.SetDefault("token_grace", DefaultTokenGrace)
	v.SetDefault("authed_limit", DefaultAuthedLimit)
	v.SetDefault("anon_limit", DefaultAnonLimit)
	v.SetDefault("rate_window", DefaultRateWindow)
	v.SetDefault("provider", ProviderGemini)
	v.SetDefault("model_name", DefaultModel)
	v.SetDefault("max_tool_steps", DefaultMaxToolSteps)
	v.SetDefault("catalog_base_url", DefaultCatalogBaseURL)
	v.SetDefault("music_base_url", DefaultMusicBaseURL)
	v.SetDefault("service_timeout", DefaultServiceTimeout)
}

// configDir returns the per-user configuration directory (~/.syaos),
// creating it with restricted permissions if absent.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".syaos")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return dir, nil
}
