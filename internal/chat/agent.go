// Package chat drives the language model through a tool-calling turn:
// system prompt assembly, history replay, streaming generation with a
// bounded step budget, and resilience (retry, circuit breaker, proactive
// rate limiting) around the provider call.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"

	"github.com/syamace/syaos/internal/log"
	"github.com/syamace/syaos/internal/prompt"
)

// defaultMaxSteps bounds the agentic loop when no budget is configured.
const defaultMaxSteps = 10

// fallbackResponse is returned when the model produces nothing at all.
const fallbackResponse = "I couldn't come up with a response. Please try rephrasing."

// Sentinel errors for agent failures.
var (
	// ErrBadHistory indicates the client-supplied history is malformed.
	ErrBadHistory = errors.New("invalid conversation history")

	// ErrExecutionFailed indicates the model call failed after retries.
	ErrExecutionFailed = errors.New("execution failed")
)

// Request is one chat turn: the full history plus an optional desktop
// state snapshot. The gateway holds no conversation state between
// requests.
type Request struct {
	Messages []Message           `json:"messages"`
	State    *prompt.SystemState `json:"systemState,omitempty"`
	Model    string              `json:"model,omitempty"`

	// Geo is derived server-side from the caller's IP, never from the
	// request body.
	Geo *prompt.Geo `json:"-"`
}

// Response is the completed turn.
type Response struct {
	FinalText    string
	ToolRequests []*ai.ToolRequest
}

// StreamCallback receives each model chunk as it is generated. Returning
// an error aborts the stream.
type StreamCallback func(ctx context.Context, chunk *ai.ModelResponseChunk) error

// Config holds the Agent dependencies.
type Config struct {
	Genkit    *genkit.Genkit
	Assembler *prompt.Assembler
	Logger    log.Logger
	Tools     []ai.ToolRef // pre-registered tool catalog

	ModelName string // provider-qualified default model
	MaxSteps  int    // tool-calling step budget per turn

	RetryConfig          RetryConfig
	CircuitBreakerConfig CircuitBreakerConfig
	RateLimiter          *rate.Limiter // proactive provider limiter, nil = default
}

// validate checks required dependencies.
func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.Assembler == nil {
		return errors.New("prompt assembler is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if len(cfg.Tools) == 0 {
		return errors.New("at least one tool is required")
	}
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	return nil
}

// Agent executes chat turns. It is stateless across requests; all
// configuration is captured immutably at construction so concurrent
// requests share it safely.
type Agent struct {
	modelName string
	maxSteps  int

	retryConfig    RetryConfig
	circuitBreaker *CircuitBreaker
	rateLimiter    *rate.Limiter

	g         *genkit.Genkit
	assembler *prompt.Assembler
	logger    log.Logger
	toolRefs  []ai.ToolRef
	toolNames string // cached for logging
}

// New creates an Agent.
func New(cfg Config) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}
	retryConfig := cfg.RetryConfig
	if retryConfig.MaxRetries == 0 {
		retryConfig = DefaultRetryConfig()
	}
	cbConfig := cfg.CircuitBreakerConfig
	if cbConfig.FailureThreshold == 0 {
		cbConfig = DefaultCircuitBreakerConfig()
	}
	rl := cfg.RateLimiter
	if rl == nil {
		rl = rate.NewLimiter(10, 30)
	}

	names := make([]string, len(cfg.Tools))
	for i, t := range cfg.Tools {
		names[i] = t.Name()
	}

	a := &Agent{
		modelName:      cfg.ModelName,
		maxSteps:       maxSteps,
		retryConfig:    retryConfig,
		circuitBreaker: NewCircuitBreaker(cbConfig),
		rateLimiter:    rl,
		g:              cfg.Genkit,
		assembler:      cfg.Assembler,
		logger:         cfg.Logger,
		toolRefs:       cfg.Tools,
		toolNames:      strings.Join(names, ", "),
	}

	a.logger.Info("chat agent initialized",
		"tools", len(a.toolRefs),
		"maxSteps", a.maxSteps,
		"model", a.modelName)
	return a, nil
}

// Execute runs one turn without streaming.
func (a *Agent) Execute(ctx context.Context, req Request) (*Response, error) {
	return a.ExecuteStream(ctx, req, nil)
}

// ExecuteStream runs one turn, invoking callback per chunk when non-nil.
// The model may call tools for up to the configured step budget; tool
// failures surface inside tool results and never abort the turn. The
// final response is returned after generation completes.
func (a *Agent) ExecuteStream(ctx context.Context, req Request, callback StreamCallback) (*Response, error) {
	if err := validateHistory(req.Messages); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadHistory, err)
	}

	// System messages first, then the replayed conversation. The static
	// prefix stays byte-stable across requests so capable providers can
	// reuse their prompt cache.
	system := a.assembler.Assemble(req.State, req.Geo)
	messages := make([]*ai.Message, 0, len(system)+len(req.Messages))
	for _, m := range system {
		messages = append(messages, ai.NewSystemTextMessage(m.Text))
	}
	messages = append(messages, toModelMessages(req.Messages)...)

	model := a.modelName
	if req.Model != "" {
		model = req.Model
	}

	opts := []ai.GenerateOption{
		ai.WithModelName(model),
		ai.WithMessages(messages...),
		ai.WithTools(a.toolRefs...),
		ai.WithMaxTurns(a.maxSteps),
	}
	if callback != nil {
		opts = append(opts, ai.WithStreaming(ai.ModelStreamCallback(callback)))
	}

	a.logger.Debug("executing chat turn",
		"model", model,
		"history", len(req.Messages),
		"tools", a.toolNames)

	if err := a.circuitBreaker.Allow(); err != nil {
		a.logger.Warn("circuit breaker open, rejecting request",
			"state", a.circuitBreaker.State().String())
		return nil, fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}

	resp, err := a.generateWithRetry(ctx, opts)
	if err != nil {
		a.circuitBreaker.Failure()
		return nil, fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}
	a.circuitBreaker.Success()

	text := resp.Text()
	if strings.TrimSpace(text) == "" && len(resp.ToolRequests()) == 0 {
		a.logger.Warn("model returned empty response with no tool requests")
		text = fallbackResponse
	}

	return &Response{
		FinalText:    text,
		ToolRequests: resp.ToolRequests(),
	}, nil
}
