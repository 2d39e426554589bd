package provider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"temetro/model"
)

// AnthropicProvider implements model.CompletionStreamer over the official
// Anthropic Go SDK. Tool-use input arrives as partial-JSON deltas, which
// map directly onto argument fragments; the "tool_use" stop reason is
// normalized to the shared tool-calls finish reason.
type AnthropicProvider struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicProvider creates an Anthropic provider. The API key is
// required.
func NewAnthropicProvider(baseURL, apiKey, modelName string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	m := anthropic.ModelClaudeSonnet4_5_20250929
	if modelName != "" {
		m = anthropic.Model(modelName)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &AnthropicProvider{client: client, model: m}, nil
}

// StreamCompletion implements model.CompletionStreamer.
func (p *AnthropicProvider) StreamCompletion(ctx context.Context, req model.CompletionRequest, fn model.StreamEventFunc) error {
	messages, system := toAnthropicMessages(req.Messages)

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 4096 // required by the Anthropic API
	}

	params := anthropic.MessageNewParams{
		Model:     p.model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}
	if len(system) > 0 {
		params.System = system
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if len(req.Tools) > 0 {
		params.Tools = toAnthropicTools(req.Tools)
	}

	stream := p.client.Messages.NewStreaming(ctx, params)
	sawToolUse := false

	for stream.Next() {
		event := stream.Current()

		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockStartEvent:
			if block, ok := eventVariant.ContentBlock.AsAny().(anthropic.ToolUseBlock); ok {
				sawToolUse = true
				err := fn(model.StreamEvent{ToolCalls: []model.ToolCallDelta{{
					Index: int(eventVariant.Index),
					ID:    block.ID,
					Name:  block.Name,
				}}})
				if err != nil {
					return err
				}
			}

		case anthropic.ContentBlockDeltaEvent:
			switch deltaVariant := eventVariant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if err := fn(model.StreamEvent{Content: deltaVariant.Text}); err != nil {
					return err
				}
			case anthropic.InputJSONDelta:
				err := fn(model.StreamEvent{ToolCalls: []model.ToolCallDelta{{
					Index:     int(eventVariant.Index),
					Arguments: deltaVariant.PartialJSON,
				}}})
				if err != nil {
					return err
				}
			}

		case anthropic.MessageDeltaEvent:
			if eventVariant.Delta.StopReason == "" {
				continue
			}
			reason := "stop"
			if eventVariant.Delta.StopReason == "tool_use" || sawToolUse {
				reason = model.FinishReasonToolCalls
			}
			if err := fn(model.StreamEvent{FinishReason: reason}); err != nil {
				return err
			}
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("Anthropic streaming error: %w", err)
	}
	return nil
}

// GetModel implements model.CompletionStreamer.
func (p *AnthropicProvider) GetModel() string {
	return string(p.model)
}

// Ping implements model.CompletionStreamer with a minimal one-token request,
// since Anthropic has no health endpoint.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return fmt.Errorf("Anthropic ping failed: %w", err)
	}
	return nil
}
