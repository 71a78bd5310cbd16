package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/syamace/syaos/internal/log"
	"github.com/syamace/syaos/internal/prompt"
)

type echoInput struct {
	Text string `json:"text"`
}

type echoOutput struct {
	Text string `json:"text"`
}

func testConfig(t *testing.T) Config {
	t.Helper()
	g := genkit.Init(context.Background())
	tool := genkit.DefineTool(g, "echo", "Echo the input back.",
		func(_ *ai.ToolContext, in echoInput) (echoOutput, error) {
			return echoOutput(in), nil
		})

	return Config{
		Genkit:    g,
		Assembler: prompt.NewAssembler(log.NewNop()),
		Logger:    log.NewNop(),
		Tools:     []ai.ToolRef{tool},
		ModelName: "googleai/gemini-2.5-flash",
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing genkit", mutate: func(c *Config) { c.Genkit = nil }},
		{name: "missing assembler", mutate: func(c *Config) { c.Assembler = nil }},
		{name: "missing logger", mutate: func(c *Config) { c.Logger = nil }},
		{name: "no tools", mutate: func(c *Config) { c.Tools = nil }},
		{name: "missing model", mutate: func(c *Config) { c.ModelName = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(&cfg)
			if _, err := New(cfg); err == nil {
				t.Error("New error = nil, want error")
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	agent, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	if agent.maxSteps != defaultMaxSteps {
		t.Errorf("maxSteps = %d, want %d", agent.maxSteps, defaultMaxSteps)
	}
	if agent.retryConfig.MaxRetries != DefaultRetryConfig().MaxRetries {
		t.Errorf("retryConfig = %+v", agent.retryConfig)
	}
	if agent.circuitBreaker == nil || agent.rateLimiter == nil {
		t.Error("resilience defaults not applied")
	}
	if agent.toolNames != "echo" {
		t.Errorf("toolNames = %q", agent.toolNames)
	}
}

func TestExecuteStream_BadHistory(t *testing.T) {
	agent, err := New(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	_, err = agent.Execute(context.Background(), Request{
		Messages: []Message{
			{Role: RoleAssistant, Parts: []Part{
				{Kind: PartToolCall, ToolName: "echo", CallID: "c1"},
			}},
		},
	})
	if !errors.Is(err, ErrBadHistory) {
		t.Errorf("error = %v, want ErrBadHistory", err)
	}

	_, err = agent.Execute(context.Background(), Request{
		Messages: []Message{{Role: "narrator", Parts: []Part{{Kind: PartText, Text: "x"}}}},
	})
	if !errors.Is(err, ErrBadHistory) {
		t.Errorf("error = %v, want ErrBadHistory", err)
	}
}

// With no model registered, a structurally valid request must fail as an
// execution error and trip the breaker's failure counter, never panic.
func TestExecuteStream_GenerationFailure(t *testing.T) {
	agent, err := New(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	_, err = agent.Execute(context.Background(), Request{
		Messages: []Message{textMessage(RoleUser, "hello")},
	})
	if !errors.Is(err, ErrExecutionFailed) {
		t.Errorf("error = %v, want ErrExecutionFailed", err)
	}
}

func TestNewFlow_Singleton(t *testing.T) {
	ResetFlowForTesting()
	t.Cleanup(ResetFlowForTesting)

	cfg := testConfig(t)
	agent, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	f1 := NewFlow(cfg.Genkit, agent)
	if f1 == nil {
		t.Fatal("NewFlow returned nil")
	}
	f2 := NewFlow(cfg.Genkit, agent)
	if f1 != f2 {
		t.Error("NewFlow returned different instances")
	}
}
