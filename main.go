package main

import (
	"fmt"
	"log"
	"os"

	"temetro/ai"
	"temetro/config"
	"temetro/github"
	"temetro/provider"
	"temetro/server"
	"temetro/storage"
	"temetro/tools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	gh := github.NewClient(cfg.GitHubToken)
	registry := tools.NewRegistry(gh)

	apiKey := ""
	switch provider.ProviderType(cfg.Provider) {
	case provider.ProviderTypeOpenAI:
		apiKey = cfg.OpenAIKey
	case provider.ProviderTypeAnthropic:
		apiKey = cfg.AnthropicKey
	}

	llm, err := provider.New(provider.Config{
		Type:    provider.ProviderType(cfg.Provider),
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		APIKey:  apiKey,
	})
	if err != nil {
		fmt.Printf("Failed to initialize provider: %v\n", err)
		os.Exit(1)
	}

	orchestrator := ai.NewOrchestrator(llm, registry)

	srv := server.NewServer(cfg.Addr, orchestrator, gh)

	// Conversation persistence is best-effort: a broken database means
	// chats are not saved, not that the server is down.
	store, err := storage.NewConversationStore(cfg.DataDir())
	if err != nil {
		log.Printf("STORAGE | conversation store unavailable, continuing without persistence: %v", err)
	} else {
		defer store.Close()
		srv.WithConversationStore(store)
	}

	log.Printf("PROVIDER | provider=%s model=%s", cfg.Provider, llm.GetModel())
	if err := srv.Run(); err != nil {
		fmt.Printf("Server error: %v\n", err)
		os.Exit(1)
	}
}
