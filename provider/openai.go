package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"temetro/model"
)

// OpenAIProvider implements model.CompletionStreamer over the official
// OpenAI Go SDK. This is the primary provider; tool-call deltas arrive
// fragmented (name first, then argument text pieces) and are forwarded
// as-is for the orchestrator to accumulate.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates an OpenAI provider. baseURL defaults to the
// public API, model to gpt-4o. The API key is required.
func NewOpenAIProvider(baseURL, apiKey, modelName string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if modelName == "" {
		modelName = "gpt-4o"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{client: client, model: modelName}, nil
}

// StreamCompletion implements model.CompletionStreamer.
func (p *OpenAIProvider) StreamCompletion(ctx context.Context, req model.CompletionRequest, fn model.StreamEventFunc) error {
	params := openai.ChatCompletionNewParams{
		Messages: toOpenAIMessages(req.Messages),
		Model:    openai.ChatModel(p.model),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if len(req.Tools) > 0 {
		params.Tools = toOpenAITools(req.Tools)
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]

		ev := model.StreamEvent{Content: choice.Delta.Content}
		for _, tc := range choice.Delta.ToolCalls {
			ev.ToolCalls = append(ev.ToolCalls, model.ToolCallDelta{
				Index:     int(tc.Index),
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
		ev.FinishReason = string(choice.FinishReason)

		if err := fn(ev); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("OpenAI streaming error: %w", err)
	}
	return nil
}

// GetModel implements model.CompletionStreamer.
func (p *OpenAIProvider) GetModel() string {
	return p.model
}

// Ping implements model.CompletionStreamer by listing models.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("OpenAI ping failed: %w", err)
	}
	return nil
}
