package llm

import (
	"context"
	"encoding/json"

	"github.com/khesht/khesht-api/internal/domain"
)

// ToolSchema describes a tool exposed to the model, with a JSON-schema
// style parameter description
type ToolSchema struct {
	Name        string
	Description string
	Parameters  map[string]any
	Required    []string
}

// ToolCall is a model-initiated request to invoke one named tool.
// Arguments carries the raw JSON argument payload exactly as the model
// produced it; callers are responsible for parsing it defensively.
type ToolCall struct {
	Name      string
	Arguments json.RawMessage
}

// Request contains the parameters for one chat completion. The message
// sequence sent to the model is [system] + History + [user message].
type Request struct {
	SystemPrompt string
	History      []domain.Message
	UserMessage  string
	Tools        []ToolSchema
}

// Response contains the model's reply for one turn. It is polymorphic:
// Content holds a natural-language answer, and ToolCall is non-nil when the
// model requested a tool instead. At most one tool call is honored per turn.
type Response struct {
	Content    string
	ToolCall   *ToolCall
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Chat sends one conversational turn to the model
	Chat(ctx context.Context, req Request, model string) (*Response, error)
}
