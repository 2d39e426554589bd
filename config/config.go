package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type AIConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url,omitempty"`
}

type GitHubConfig struct {
	Token string `toml:"token,omitempty"`
}

type UserConfig struct {
	Server ServerConfig `toml:"server"`
	AI     AIConfig     `toml:"ai"`
	GitHub GitHubConfig `toml:"github"`
}

type Config struct {
	DataDirectory string
	Addr          string
	Provider      string
	Model         string
	BaseURL       string
	GitHubToken   string
	OpenAIKey     string
	AnthropicKey  string
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("TEMETRO_ADDR"); addr != "" {
		c.Addr = addr
	}
	if provider := os.Getenv("TEMETRO_AI_PROVIDER"); provider != "" {
		c.Provider = provider
	}
	if model := os.Getenv("TEMETRO_AI_MODEL"); model != "" {
		c.Model = model
	}
	if baseURL := os.Getenv("TEMETRO_AI_BASE_URL"); baseURL != "" {
		c.BaseURL = baseURL
	}
	if dataDir := os.Getenv("TEMETRO_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.GitHubToken = token
	}
}

func CheckDebug() bool {
	debug := os.Getenv("TEMETRO_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// Create debug log with secure permissions (0600 - may contain prompt text)
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (TEMETRO_DEBUG=%s) ===", os.Getenv("TEMETRO_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory: "~/.local/share/temetro",
		Addr:          ":8080",
		Provider:      "openai",
		Model:         "gpt-4o",
	}

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	cfg.DataDirectory = systemCfg.DataDirectory

	dataDir := cfg.DataDir()
	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	if userCfg.Server.Addr != "" {
		cfg.Addr = userCfg.Server.Addr
	}
	if userCfg.AI.Provider != "" {
		cfg.Provider = userCfg.AI.Provider
	}
	if userCfg.AI.Model != "" {
		cfg.Model = userCfg.AI.Model
	}
	cfg.BaseURL = userCfg.AI.BaseURL
	cfg.GitHubToken = userCfg.GitHub.Token

	// API keys come from the environment, never from config files
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AnthropicKey = os.Getenv("ANTHROPIC_API_KEY")

	cfg.applyEnvOverrides()

	dataDir = cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}
