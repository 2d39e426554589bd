// Package ai drives the multi-turn model conversation behind a chat
// request: prompt assembly, the primary completion stream, tool-call
// detection and execution, and the continuation stream after a tool result
// is folded back into the conversation. All output is multiplexed, in
// order, through a single chunk callback.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"temetro/model"
	"temetro/tools"
)

// Sampling policy, identical for the primary and continuation calls.
const (
	MaxOutputTokens = 4096
	Temperature     = 0.7
)

// Orchestrator turns a chat request into a streamed answer, executing at
// most one tool round-trip per request. It holds no per-request state and
// is safe for concurrent use; all conversation state is local to one
// StreamChat invocation.
type Orchestrator struct {
	llm      model.CompletionStreamer
	registry *tools.Registry
}

func NewOrchestrator(llm model.CompletionStreamer, registry *tools.Registry) *Orchestrator {
	return &Orchestrator{llm: llm, registry: registry}
}

// StreamChat streams the answer to req through onChunk and returns the full
// accumulated text. Chunk ordering within a request is: zero or more text
// chunks, then optionally tool_call, tool_result and further text chunks,
// then exactly one terminal done or error chunk.
//
// Tool execution failures are not fatal: they surface as a tool_result with
// success=false and the conversation continues so the model can explain the
// failure. Provider stream failures and unparseable tool arguments are
// fatal: an error chunk is emitted and the error is returned.
func (o *Orchestrator) StreamChat(ctx context.Context, req model.ChatRequest, onChunk func(model.StreamChunk)) (string, error) {
	messages := []model.Message{
		{Role: "system", Content: BuildSystemPrompt(req.RepositoryContext)},
		{Role: "user", Content: req.Message},
	}

	// Tools require a resolvable repository; without one the model is
	// offered none and no tool chunks can ever be emitted.
	var toolDecls []mcptypes.Tool
	if req.RepositoryContext.Resolvable() {
		toolDecls = tools.Declarations()
	}

	var full strings.Builder
	var current *model.ToolCall // single in-flight call, overwritten if the model starts another
	var pending *model.ToolCall

	err := o.llm.StreamCompletion(ctx, model.CompletionRequest{
		Messages:    messages,
		Tools:       toolDecls,
		MaxTokens:   MaxOutputTokens,
		Temperature: Temperature,
	}, func(ev model.StreamEvent) error {
		if ev.Content != "" {
			full.WriteString(ev.Content)
			onChunk(model.TextChunk(ev.Content))
		}
		for _, tc := range ev.ToolCalls {
			switch {
			case tc.Name != "":
				current = &model.ToolCall{ID: tc.ID, Name: tc.Name, Arguments: tc.Arguments}
			case current != nil:
				// Argument text arrives fragmented; concatenate verbatim.
				current.Arguments += tc.Arguments
			}
		}
		if ev.FinishReason == model.FinishReasonToolCalls && current != nil && req.RepositoryContext.Resolvable() {
			pending = current
		}
		return nil
	})
	if err != nil {
		onChunk(model.ErrorChunk(err.Error()))
		return "", err
	}

	if pending != nil {
		if err := o.runToolPhase(ctx, pending, req, &messages, onChunk); err != nil {
			onChunk(model.ErrorChunk(err.Error()))
			return "", err
		}

		// Continuation stream over the extended conversation. No tools
		// this time: one round-trip per request.
		err := o.llm.StreamCompletion(ctx, model.CompletionRequest{
			Messages:    messages,
			MaxTokens:   MaxOutputTokens,
			Temperature: Temperature,
		}, func(ev model.StreamEvent) error {
			if ev.Content != "" {
				full.WriteString(ev.Content)
				onChunk(model.TextChunk(ev.Content))
			}
			return nil
		})
		if err != nil {
			onChunk(model.ErrorChunk(err.Error()))
			return "", err
		}
	}

	onChunk(model.DoneChunk())
	return full.String(), nil
}

// runToolPhase executes the pending tool call and appends the assistant
// tool-call echo and the tool result to the conversation.
func (o *Orchestrator) runToolPhase(ctx context.Context, call *model.ToolCall, req model.ChatRequest, messages *[]model.Message, onChunk func(model.StreamChunk)) error {
	argText := call.Arguments
	if argText == "" {
		argText = "{}"
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(argText), &args); err != nil {
		// The arguments are integral to correctness; they cannot be
		// guessed, so a parse failure is fatal to the request.
		return fmt.Errorf("parsing %s arguments: %w", call.Name, err)
	}

	onChunk(model.ToolCallChunk(call.Name, args))

	resultJSON := o.registry.Execute(ctx, call.Name, args, req.RepositoryContext)

	var result any
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		result = resultJSON
	}
	onChunk(model.ToolResultChunk(call.Name, result))

	*messages = append(*messages,
		model.Message{Role: "assistant", ToolCalls: []model.ToolCall{*call}},
		model.Message{Role: "tool", Content: resultJSON, ToolCallID: call.ID},
	)
	return nil
}

// GenerateResponse produces a complete answer without streaming to the
// caller and without offering tools.
func (o *Orchestrator) GenerateResponse(ctx context.Context, req model.ChatRequest) (string, error) {
	messages := []model.Message{
		{Role: "system", Content: BuildSystemPrompt(req.RepositoryContext)},
		{Role: "user", Content: req.Message},
	}

	var full strings.Builder
	err := o.llm.StreamCompletion(ctx, model.CompletionRequest{
		Messages:    messages,
		MaxTokens:   MaxOutputTokens,
		Temperature: Temperature,
	}, func(ev model.StreamEvent) error {
		full.WriteString(ev.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return full.String(), nil
}
