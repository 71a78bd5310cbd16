package chat

import (
	"errors"
	"fmt"
	"testing"
)

func TestRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "rate limit", err: errors.New("googleai: rate limit exceeded"), want: true},
		{name: "quota", err: errors.New("Quota Exceeded for project"), want: true},
		{name: "http 429", err: errors.New("unexpected status 429"), want: true},
		{name: "http 503", err: errors.New("503 Service Unavailable"), want: true},
		{name: "timeout", err: fmt.Errorf("request: %w", errors.New("context deadline: timeout")), want: true},
		{name: "connection reset", err: errors.New("read tcp: connection reset by peer"), want: true},
		{name: "bad request", err: errors.New("invalid argument: unknown model"), want: false},
		{name: "auth", err: errors.New("401 unauthorized"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryableError(tt.err); got != tt.want {
				t.Errorf("retryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.InitialInterval >= cfg.MaxInterval {
		t.Errorf("InitialInterval %v must be below MaxInterval %v",
			cfg.InitialInterval, cfg.MaxInterval)
	}
}
