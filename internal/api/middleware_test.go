package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syamace/syaos/internal/log"
)

func TestRecoveryMiddleware_NoPanic(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	wrapped := recoveryMiddleware(log.NewNop())(handler)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestRecoveryMiddleware_WithPanic(t *testing.T) {
	handler := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	})

	wrapped := recoveryMiddleware(log.NewNop())(handler)
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}

func TestLoggingMiddleware_CapturesStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithWriter(&buf, log.Config{Level: slog.LevelDebug})

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	wrapped := loggingMiddleware(logger)(handler)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, buf.String(), "status=404")
}

func TestCORSMiddleware(t *testing.T) {
	allowed := []string{"https://os.sya.page"}
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := corsMiddleware(allowed, log.NewNop())(next)

	t.Run("no origin passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/chat", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allowed origin is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		req.Header.Set("Origin", "https://os.sya.page")
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://os.sya.page", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
	})

	t.Run("disallowed origin is rejected before the handler", func(t *testing.T) {
		handlerRan := false
		inner := corsMiddleware(allowed, log.NewNop())(http.HandlerFunc(
			func(w http.ResponseWriter, _ *http.Request) { handlerRan = true }))

		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		inner.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "origin_not_allowed")
		assert.False(t, handlerRan, "handler must not run for a rejected origin")
	})

	t.Run("preflight answered without the handler", func(t *testing.T) {
		handlerRan := false
		inner := corsMiddleware(allowed, log.NewNop())(http.HandlerFunc(
			func(w http.ResponseWriter, _ *http.Request) { handlerRan = true }))

		req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
		req.Header.Set("Origin", "https://os.sya.page")
		w := httptest.NewRecorder()
		inner.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.False(t, handlerRan)
	})
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		realIP     string
		forwarded  string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remoteAddr: "203.0.113.7:4312", want: "203.0.113.7"},
		{name: "proxy headers ignored without trust", remoteAddr: "203.0.113.7:4312",
			realIP: "198.51.100.1", want: "203.0.113.7"},
		{name: "x-real-ip wins with trust", remoteAddr: "10.0.0.1:80",
			realIP: "198.51.100.1", trustProxy: true, want: "198.51.100.1"},
		{name: "first forwarded hop", remoteAddr: "10.0.0.1:80",
			forwarded: "198.51.100.2, 10.0.0.1", trustProxy: true, want: "198.51.100.2"},
		{name: "garbage header falls back", remoteAddr: "203.0.113.7:4312",
			realIP: "not-an-ip", trustProxy: true, want: "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, clientIP(req, tt.trustProxy))
		})
	}
}

func TestLoggingWriter_Flush(t *testing.T) {
	w := httptest.NewRecorder()
	lw := &loggingWriter{w: w}

	// httptest.ResponseRecorder implements Flusher; the wrapper must
	// forward it so SSE streaming works through the middleware stack.
	var _ http.Flusher = lw
	lw.Flush()
	assert.True(t, w.Flushed)
}
