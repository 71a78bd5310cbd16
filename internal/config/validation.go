package config

import (
	"fmt"
	"net"
	"strings"
)

// ValidateServe checks every field the HTTP gateway depends on.
// It reports the first problem found using the package sentinel errors.
func (c *Config) ValidateServe() error {
	if c == nil {
		return ErrConfigNil
	}

	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAddr, c.Addr)
	}

	if strings.TrimSpace(c.AuthSecret) == "" {
		return ErrMissingAuthSecret
	}
	if len(c.AuthSecret) < 32 {
		return ErrWeakAuthSecret
	}

	if c.AuthedLimit <= 0 || c.AnonLimit <= 0 {
		return fmt.Errorf("%w: ceilings must be positive (authed=%d anon=%d)",
			ErrInvalidRateLimit, c.AuthedLimit, c.AnonLimit)
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("%w: window must be positive (%v)", ErrInvalidRateLimit, c.RateWindow)
	}

	switch c.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProvider, c.Provider)
	}

	if strings.TrimSpace(c.ModelName) == "" {
		return ErrInvalidModelName
	}

	return nil
}
