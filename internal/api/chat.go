package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/firebase/genkit/go/ai"

	"github.com/syamace/syaos/internal/chat"
	"github.com/syamace/syaos/internal/config"
	"github.com/syamace/syaos/internal/log"
	"github.com/syamace/syaos/internal/prompt"
)

// maxRequestBody bounds the chat request size.
const maxRequestBody = config.DefaultRequestBodyMax

// SSE event types for chat streaming.
const (
	EventChunk    = "chunk"    // partial response text
	EventToolCall = "toolCall" // model requested a tool
	EventDone     = "done"     // stream completed
	EventError    = "error"    // stream failed mid-flight
)

// ChunkPayload carries streamed text.
type ChunkPayload struct {
	Text string `json:"text"`
}

// ToolCallPayload announces a tool invocation.
type ToolCallPayload struct {
	ToolName string `json:"toolName"`
	CallID   string `json:"callId,omitempty"`
	Input    any    `json:"input,omitempty"`
}

// DonePayload closes a successful stream.
type DonePayload struct {
	Response string `json:"response"`
}

// ErrorPayload closes a failed stream.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// chatHandler serves POST /api/chat.
type chatHandler struct {
	logger     log.Logger
	agent      *chat.Agent
	validator  *TokenValidator
	quota      *Quota
	trustProxy bool
}

// rateLimitBody is the 429 response shape.
type rateLimitBody struct {
	Error           string `json:"error"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	Count           int    `json:"count"`
	Limit           int    `json:"limit"`
	Message         string `json:"message"`
}

// serve gates the request (parse, auth, quota — in that order; origin
// was already checked by middleware) and then streams the model turn.
// Every rejection happens before the first model call.
func (h *chatHandler) serve(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body", h.logger)
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "messages are required", h.logger)
		return
	}
	if m := r.URL.Query().Get("model"); m != "" {
		req.Model = m
	}

	username := r.Header.Get("X-Username")
	authenticated := false
	if username != "" {
		token := bearerToken(r)
		if token == "" {
			h.logger.Warn("auth failed: missing token", "user", username)
			writeError(w, http.StatusUnauthorized,
				"authentication_failed", "please log in again", h.logger)
			return
		}
		res, err := h.validator.Validate(username, token, ValidateOptions{
			AllowExpired:   true,
			RefreshOnGrace: true,
		})
		if err != nil || !res.Valid {
			h.logger.Warn("auth failed: invalid token", "user", username, "error", err)
			writeError(w, http.StatusUnauthorized,
				"authentication_failed", "please log in again", h.logger)
			return
		}
		if res.NeedsRefresh {
			w.Header().Set("X-Token-Refresh", "1")
		}
		authenticated = true
	}

	identity := Identity(username, clientIP(r, h.trustProxy))

	// Only user-authored text counts against the quota; a request that
	// replays system or assistant turns alone passes through unmetered.
	if chat.HasUserText(req.Messages) {
		decision := h.quota.CheckAndIncrement(identity, authenticated)
		if !decision.Allowed {
			h.logger.Warn("rate limit exceeded",
				"identity", identity,
				"count", decision.Count,
				"limit", decision.Limit)
			writeJSON(w, http.StatusTooManyRequests, rateLimitBody{
				Error:           "rate_limit_exceeded",
				IsAuthenticated: authenticated,
				Count:           decision.Count,
				Limit:           decision.Limit,
				Message:         "You've reached the message limit. Please wait a few hours and try again.",
			}, h.logger)
			return
		}
	}

	req.Geo = geoFromRequest(r)
	h.logger.Info("chat request accepted",
		"identity", identity,
		"messages", len(req.Messages),
		"authenticated", authenticated)

	h.stream(w, r, req)
}

// stream drives the model turn and relays it as SSE. From here on the
// 200 status is committed; failures surface as error events.
func (h *chatHandler) stream(w http.ResponseWriter, r *http.Request, req chat.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	resp, err := h.agent.ExecuteStream(ctx, req, func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
		if chunk == nil {
			return nil
		}
		for _, part := range chunk.Content {
			switch {
			case part.ToolRequest != nil:
				tr := part.ToolRequest
				if writeErr := writeEvent(w, flusher, EventToolCall, ToolCallPayload{
					ToolName: tr.Name,
					CallID:   tr.Ref,
					Input:    tr.Input,
				}); writeErr != nil {
					return writeErr
				}
			case part.Text != "":
				if writeErr := writeEvent(w, flusher, EventChunk, ChunkPayload{
					Text: part.Text,
				}); writeErr != nil {
					return writeErr
				}
			}
		}
		return nil
	})

	if err != nil {
		if ctx.Err() != nil {
			// Client went away; partial text already streamed stays as-is.
			h.logger.Info("chat stream canceled by client")
			return
		}
		h.logger.Error("chat stream failed", "error", err)
		_ = writeEvent(w, flusher, EventError, ErrorPayload{
			Code:    streamErrorCode(err),
			Message: "the assistant could not complete this response",
		})
		return
	}

	_ = writeEvent(w, flusher, EventDone, DonePayload{Response: resp.FinalText})
}

// bearerToken extracts the Authorization bearer token, if any.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}

// geoFromRequest reads the coarse IP geolocation set by the edge proxy.
// Absent headers simply omit the location line from the prompt.
func geoFromRequest(r *http.Request) *prompt.Geo {
	city := r.Header.Get("X-Geo-City")
	country := r.Header.Get("X-Geo-Country")
	if city == "" && country == "" {
		return nil
	}
	return &prompt.Geo{City: city, Country: country}
}

// writeEvent writes one SSE event: "event: <type>\ndata: <json>\n\n".
func writeEvent[T any](w io.Writer, flusher http.Flusher, event string, data T) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	flusher.Flush()
	return nil
}

// streamErrorCode maps agent failures to SSE error codes.
func streamErrorCode(err error) string {
	switch {
	case errors.Is(err, chat.ErrBadHistory):
		return "INVALID_HISTORY"
	case errors.Is(err, chat.ErrCircuitOpen):
		return "MODEL_UNAVAILABLE"
	case errors.Is(err, chat.ErrExecutionFailed):
		return "EXECUTION_FAILED"
	default:
		return "STREAM_ERROR"
	}
}
