package model

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// FinishReasonToolCalls is the normalized finish reason a provider reports
// when the model stopped to request tool execution. Providers map their own
// stop reasons (OpenAI "tool_calls", Anthropic "tool_use") onto it.
const FinishReasonToolCalls = "tool_calls"

// CompletionRequest is one streaming chat-completion call.
type CompletionRequest struct {
	Messages    []Message
	Tools       []mcptypes.Tool // nil disables tool calling for this call
	MaxTokens   int
	Temperature float64
}

// ToolCallDelta is a tool-call fragment from the model stream. A fragment
// carrying a Name starts a new call; fragments carrying only Arguments text
// extend the call being accumulated.
type ToolCallDelta struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// StreamEvent is one normalized delta from a provider stream.
type StreamEvent struct {
	Content      string
	ToolCalls    []ToolCallDelta
	FinishReason string
}

// StreamEventFunc receives stream events in provider emission order.
// Returning an error aborts the stream.
type StreamEventFunc func(StreamEvent) error

// CompletionStreamer abstracts a streaming LLM provider (OpenAI, Anthropic,
// Ollama) behind provider-agnostic types.
//
// The interface lives in the model package so provider implementations can
// import model without an import cycle, same as the tool and chunk types.
type CompletionStreamer interface {
	// StreamCompletion opens a streaming completion and invokes fn for
	// every delta until the stream ends or fails.
	StreamCompletion(ctx context.Context, req CompletionRequest, fn StreamEventFunc) error

	// GetModel returns the active model name.
	GetModel() string

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}
