package provider

import (
	"strings"
	"testing"
)

func TestNewDispatch(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantModel string
		wantErr   string
	}{
		{
			name:      "openai",
			cfg:       Config{Type: ProviderTypeOpenAI, APIKey: "sk-test", Model: "gpt-4o"},
			wantModel: "gpt-4o",
		},
		{
			name:      "openai default model",
			cfg:       Config{Type: ProviderTypeOpenAI, APIKey: "sk-test"},
			wantModel: "gpt-4o",
		},
		{
			name:    "openai without key",
			cfg:     Config{Type: ProviderTypeOpenAI},
			wantErr: "API key",
		},
		{
			name:      "anthropic",
			cfg:       Config{Type: ProviderTypeAnthropic, APIKey: "sk-ant-test", Model: "claude-sonnet-4-5"},
			wantModel: "claude-sonnet-4-5",
		},
		{
			name:    "anthropic without key",
			cfg:     Config{Type: ProviderTypeAnthropic},
			wantErr: "API key",
		},
		{
			name:      "ollama needs no key",
			cfg:       Config{Type: ProviderTypeOllama, BaseURL: "http://localhost:11434", Model: "llama3.1:latest"},
			wantModel: "llama3.1:latest",
		},
		{
			name:    "unknown",
			cfg:     Config{Type: "grok"},
			wantErr: "unknown provider type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("New() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := p.GetModel(); got != tt.wantModel {
				t.Errorf("GetModel() = %q, want %q", got, tt.wantModel)
			}
		})
	}
}
