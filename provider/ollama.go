package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	ollamaapi "github.com/ollama/ollama/api"

	"temetro/model"
)

// OllamaProvider implements model.CompletionStreamer against a local
// Ollama server. Ollama delivers tool calls whole rather than fragmented,
// so each call surfaces as a single delta carrying both name and the
// complete argument JSON.
type OllamaProvider struct {
	client *ollamaapi.Client
	model  string
}

// NewOllamaProvider creates an Ollama provider. baseURL defaults to the
// standard local server; no API key is used.
func NewOllamaProvider(baseURL, modelName string) (*OllamaProvider, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if modelName == "" {
		modelName = "llama3.1:latest"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL %q: %w", baseURL, err)
	}

	return &OllamaProvider{
		client: ollamaapi.NewClient(u, http.DefaultClient),
		model:  modelName,
	}, nil
}

// StreamCompletion implements model.CompletionStreamer.
func (p *OllamaProvider) StreamCompletion(ctx context.Context, req model.CompletionRequest, fn model.StreamEventFunc) error {
	stream := true
	chatReq := &ollamaapi.ChatRequest{
		Model:    p.model,
		Messages: toOllamaMessages(req.Messages),
		Stream:   &stream,
		Tools:    toOllamaTools(req.Tools),
		Options:  map[string]any{},
	}
	if req.Temperature > 0 {
		chatReq.Options["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		chatReq.Options["num_predict"] = req.MaxTokens
	}

	sawToolCalls := false
	err := p.client.Chat(ctx, chatReq, func(resp ollamaapi.ChatResponse) error {
		ev := model.StreamEvent{Content: resp.Message.Content}
		for i, tc := range resp.Message.ToolCalls {
			sawToolCalls = true
			args, err := json.Marshal(tc.Function.Arguments)
			if err != nil {
				return fmt.Errorf("encoding tool arguments: %w", err)
			}
			ev.ToolCalls = append(ev.ToolCalls, model.ToolCallDelta{
				Index:     i,
				ID:        fmt.Sprintf("call_%d", i),
				Name:      tc.Function.Name,
				Arguments: string(args),
			})
		}
		if resp.Done {
			if sawToolCalls {
				ev.FinishReason = model.FinishReasonToolCalls
			} else {
				ev.FinishReason = "stop"
			}
		}
		return fn(ev)
	})
	if err != nil {
		return fmt.Errorf("Ollama streaming error: %w", err)
	}
	return nil
}

// GetModel implements model.CompletionStreamer.
func (p *OllamaProvider) GetModel() string {
	return p.model
}

// Ping implements model.CompletionStreamer.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	if _, err := p.client.List(ctx); err != nil {
		return fmt.Errorf("Ollama ping failed: %w", err)
	}
	return nil
}
