// Package api is the HTTP surface of the chat gateway: origin-gated
// CORS, bearer-token auth, per-identity message quotas, and the SSE
// chat stream.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/syamace/syaos/internal/chat"
	"github.com/syamace/syaos/internal/log"
)

// ServerConfig configures the API server.
type ServerConfig struct {
	Logger    log.Logger
	Agent     *chat.Agent // required
	Validator *TokenValidator
	Quota     *Quota

	CORSOrigins []string
	TrustProxy  bool
}

// Server is the gateway HTTP server.
type Server struct {
	mux http.Handler
}

// NewServer wires routes and the middleware stack. Outermost first:
//
//	Recovery → Logging → CORS → routes
//
// CORS sits inside logging so rejected origins still show up in request
// logs, and outside the handlers so preflight never touches auth state.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Agent == nil {
		return nil, errors.New("chat agent is required")
	}
	if cfg.Validator == nil {
		return nil, errors.New("token validator is required")
	}
	if cfg.Quota == nil {
		return nil, errors.New("quota is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	ch := &chatHandler{
		logger:     logger,
		agent:      cfg.Agent,
		validator:  cfg.Validator,
		quota:      cfg.Quota,
		trustProxy: cfg.TrustProxy,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", ch.serve)

	var handler http.Handler = mux
	handler = corsMiddleware(cfg.CORSOrigins, logger)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Health probes bypass the middleware stack.
	top := http.NewServeMux()
	top.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		}, logger)
	})
	top.Handle("/", handler)

	return &Server{mux: top}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
