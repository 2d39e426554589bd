// Package provider implements the language-model providers behind the
// model.CompletionStreamer interface: OpenAI (primary), Anthropic and
// Ollama. The chat core stays provider-agnostic; this package owns every
// SDK type.
package provider

import (
	"fmt"

	"temetro/model"
)

// ProviderType identifies a provider implementation.
type ProviderType string

const (
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeAnthropic ProviderType = "anthropic"
	ProviderTypeOllama    ProviderType = "ollama"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // unused for Ollama
}

// New creates a provider from configuration. It is the single dispatch
// point between config and provider constructors.
func New(cfg Config) (model.CompletionStreamer, error) {
	switch cfg.Type {
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}
