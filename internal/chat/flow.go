package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"
)

// FlowName is the registered name of the chat flow.
const FlowName = "syaos/chat"

// Output is the flow's final payload.
type Output struct {
	Response string `json:"response"`
}

// StreamChunk is one streamed text fragment.
type StreamChunk struct {
	Text string `json:"text"`
}

// Flow is the chat agent's streaming flow type, registered for tracing
// and the Genkit DevUI. The SSE handler streams through the agent
// directly because it also relays tool-call events, which the flow's
// text-only chunks do not carry.
type Flow = core.Flow[Request, Output, StreamChunk]

// genkit.DefineStreamingFlow panics on re-registration, so the flow is a
// process-wide singleton.
var (
	flowOnce sync.Once
	flow     *Flow
)

// NewFlow returns the chat flow singleton, defining it on first call.
func NewFlow(g *genkit.Genkit, agent *Agent) *Flow {
	flowOnce.Do(func() {
		flow = agent.defineFlow(g)
	})
	return flow
}

// ResetFlowForTesting clears the singleton so tests can re-register.
// Not safe for concurrent use.
func ResetFlowForTesting() {
	flowOnce = sync.Once{}
	flow = nil
}

// defineFlow wraps Agent.ExecuteStream in a Genkit streaming flow for
// tracing, schema checking, and DevUI exposure. The flow carries only
// text chunks; the API layer streams tool events separately.
func (a *Agent) defineFlow(g *genkit.Genkit) *Flow {
	return genkit.DefineStreamingFlow(g, FlowName,
		func(ctx context.Context, req Request, streamCb func(context.Context, StreamChunk) error) (Output, error) {
			var callback StreamCallback
			if streamCb != nil {
				callback = func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
					if chunk == nil {
						return nil
					}
					for _, part := range chunk.Content {
						if part.Text == "" {
							continue
						}
						if err := streamCb(ctx, StreamChunk{Text: part.Text}); err != nil {
							return err
						}
					}
					return nil
				}
			}

			resp, err := a.ExecuteStream(ctx, req, callback)
			if err != nil {
				return Output{}, fmt.Errorf("chat flow: %w", err)
			}
			return Output{Response: resp.FinalText}, nil
		},
	)
}
