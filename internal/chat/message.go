package chat

import (
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Part kinds.
const (
	PartText       = "text"
	PartToolCall   = "toolCall"
	PartToolResult = "toolResult"
	PartFile       = "file"
)

// Message is one conversation turn as sent by the client. The gateway is
// stateless: the full history arrives on every request.
type Message struct {
	Role      string    `json:"role"`
	Parts     []Part    `json:"parts"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Part is one segment of a message. Kind selects which fields are set.
type Part struct {
	Kind string `json:"kind"`

	// PartText
	Text string `json:"text,omitempty"`

	// PartToolCall and PartToolResult
	ToolName string `json:"toolName,omitempty"`
	CallID   string `json:"callId,omitempty"`
	Input    any    `json:"input,omitempty"`
	Output   any    `json:"output,omitempty"`

	// PartFile
	MediaType string `json:"mediaType,omitempty"`
	URL       string `json:"url,omitempty"`
}

// HasUserText reports whether any message is a user turn with at least
// one non-empty text part. Only such messages count against the rate
// quota.
func HasUserText(messages []Message) bool {
	for _, m := range messages {
		if m.Role != RoleUser {
			continue
		}
		for _, p := range m.Parts {
			if p.Kind == PartText && p.Text != "" {
				return true
			}
		}
	}
	return false
}

// validateHistory checks the turn-completeness invariant: every tool
// call in an assistant turn must have a matching result part before the
// turn is replayed to the model.
func validateHistory(messages []Message) error {
	for i, m := range messages {
		switch m.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return fmt.Errorf("message %d: unknown role %q", i, m.Role)
		}
		if m.Role != RoleAssistant {
			continue
		}
		pending := map[string]bool{}
		for _, p := range m.Parts {
			switch p.Kind {
			case PartToolCall:
				pending[p.CallID] = true
			case PartToolResult:
				delete(pending, p.CallID)
			}
		}
		if len(pending) > 0 {
			return fmt.Errorf("message %d: %d tool call(s) without results", i, len(pending))
		}
	}
	return nil
}

// toModelMessages converts client history into model messages. System
// messages from the client are dropped: the gateway owns the system
// prompt and never lets callers inject into it.
func toModelMessages(messages []Message) []*ai.Message {
	out := make([]*ai.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			continue
		}
		parts := make([]*ai.Part, 0, len(m.Parts))
		for _, p := range m.Parts {
			switch p.Kind {
			case PartText:
				if p.Text != "" {
					parts = append(parts, ai.NewTextPart(p.Text))
				}
			case PartToolCall:
				parts = append(parts, ai.NewToolRequestPart(&ai.ToolRequest{
					Name:  p.ToolName,
					Ref:   p.CallID,
					Input: p.Input,
				}))
			case PartToolResult:
				parts = append(parts, ai.NewToolResponsePart(&ai.ToolResponse{
					Name:   p.ToolName,
					Ref:    p.CallID,
					Output: p.Output,
				}))
			case PartFile:
				if p.URL != "" {
					parts = append(parts, ai.NewMediaPart(p.MediaType, p.URL))
				}
			}
		}
		if len(parts) == 0 {
			continue
		}
		if m.Role == RoleAssistant {
			out = append(out, ai.NewModelMessage(parts...))
		} else {
			out = append(out, ai.NewUserMessage(parts...))
		}
	}
	return out
}
