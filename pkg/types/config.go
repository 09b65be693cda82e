package types

// Config is the application configuration, merged from config files and
// environment variables.
type Config struct {
	// Port is the HTTP listen port.
	Port int `json:"port,omitempty"`

	// Model is the default model in "provider/model" form,
	// e.g. "gateway/gemini-2.5-flash" or "anthropic/claude-sonnet-4-20250514".
	Model string `json:"model,omitempty"`

	// Provider holds per-provider credentials and endpoints.
	Provider map[string]ProviderConfig `json:"provider,omitempty"`

	// SerpAPIKey enables real web search when set; otherwise web_search
	// degrades to a search-engine URL suggestion.
	SerpAPIKey string `json:"serpApiKey,omitempty"`

	// MCP configures external tool-provider servers.
	MCP map[string]MCPConfig `json:"mcp,omitempty"`

	// LogLevel is the minimum log level (DEBUG, INFO, WARN, ERROR).
	LogLevel string `json:"logLevel,omitempty"`
}

// ProviderConfig holds credentials for one model provider.
type ProviderConfig struct {
	APIKey    string `json:"apiKey,omitempty"`
	BaseURL   string `json:"baseUrl,omitempty"`
	Model     string `json:"model,omitempty"`
	MaxTokens int    `json:"maxTokens,omitempty"`
}

// MCPConfig configures one MCP server connection.
type MCPConfig struct {
	Enabled     *bool             `json:"enabled,omitempty"`
	Type        string            `json:"type"` // "remote", "local"
	URL         string            `json:"url,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Command     []string          `json:"command,omitempty"`
	Environment map[string]string `json:"environment,omitempty"`
	Timeout     int               `json:"timeout,omitempty"` // millis
}
