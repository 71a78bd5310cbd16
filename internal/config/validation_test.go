package config

import (
	"errors"
	"testing"
	"time"
)

// validConfig returns a config that passes ValidateServe.
func validConfig() *Config {
	return &Config{
		Addr:        "127.0.0.1:3600",
		AuthSecret:  "0123456789abcdef0123456789abcdef",
		TokenGrace:  time.Hour,
		AuthedLimit: 50,
		AnonLimit:   10,
		RateWindow:  5 * time.Hour,
		Provider:    ProviderGemini,
		ModelName:   "gemini-2.5-flash",
	}
}

func TestValidateServe(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: nil},
		{name: "openai provider", mutate: func(c *Config) { c.Provider = ProviderOpenAI }, wantErr: nil},
		{name: "missing port", mutate: func(c *Config) { c.Addr = "localhost" }, wantErr: ErrInvalidAddr},
		{name: "empty addr", mutate: func(c *Config) { c.Addr = "" }, wantErr: ErrInvalidAddr},
		{name: "missing secret", mutate: func(c *Config) { c.AuthSecret = "" }, wantErr: ErrMissingAuthSecret},
		{name: "blank secret", mutate: func(c *Config) { c.AuthSecret = "   " }, wantErr: ErrMissingAuthSecret},
		{name: "short secret", mutate: func(c *Config) { c.AuthSecret = "too-short" }, wantErr: ErrWeakAuthSecret},
		{name: "zero authed limit", mutate: func(c *Config) { c.AuthedLimit = 0 }, wantErr: ErrInvalidRateLimit},
		{name: "negative anon limit", mutate: func(c *Config) { c.AnonLimit = -1 }, wantErr: ErrInvalidRateLimit},
		{name: "zero window", mutate: func(c *Config) { c.RateWindow = 0 }, wantErr: ErrInvalidRateLimit},
		{name: "unknown provider", mutate: func(c *Config) { c.Provider = "bedrock" }, wantErr: ErrInvalidProvider},
		{name: "empty provider", mutate: func(c *Config) { c.Provider = "" }, wantErr: ErrInvalidProvider},
		{name: "empty model", mutate: func(c *Config) { c.ModelName = "  " }, wantErr: ErrInvalidModelName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.ValidateServe()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateServe error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateServe error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateServe_NilConfig(t *testing.T) {
	var cfg *Config
	if err := cfg.ValidateServe(); !errors.Is(err, ErrConfigNil) {
		t.Errorf("error = %v, want ErrConfigNil", err)
	}
}
