package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/temetro",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Server: ServerConfig{
			Addr: ":8080",
		},
		AI: AIConfig{
			Provider: "openai",
			Model:    "gpt-4o",
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Temetro System Configuration
# Location: ~/.config/temetro/settings.toml
# This file uses TOML format: https://toml.io

# Directory where conversations and user config are stored
data_directory = "~/.local/share/temetro"
`
}

func GenerateUserConfigTemplate() string {
	return `# Temetro User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[server]
# Address the HTTP server listens on
addr = ":8080"

[ai]
# Completion provider: openai, anthropic, or ollama
provider = "openai"

# Model to use for chat completions
model = "gpt-4o"

# Optional base URL override (e.g. an Ollama host or OpenAI-compatible proxy)
base_url = ""

[github]
# Personal access token for the GitHub API (optional, raises rate limits
# and enables code search). Prefer the GITHUB_TOKEN environment variable.
token = ""
`
}
