// Package config loads application configuration from files and the
// environment.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/tidwall/jsonc"

	"github.com/aether-ai/aether/pkg/types"
)

// DefaultModel is used when no model is configured anywhere.
const DefaultModel = "gateway/gemini-2.5-flash"

// Load loads configuration from multiple sources (priority order):
// 1. Global config (~/.config/aether/aether.json[c])
// 2. Project config (./aether.json[c])
// 3. AETHER_CONFIG file override
// 4. Environment variables (highest priority)
func Load(directory string) (*types.Config, error) {
	config := &types.Config{
		Provider: make(map[string]types.ProviderConfig),
	}

	loaded := make(map[string]bool)

	loadOnce := func(path string) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if loaded[absPath] {
			return
		}
		if loadConfigFile(path, config) == nil {
			loaded[absPath] = true
		}
	}

	// 1. Global config
	if home := os.Getenv("HOME"); home != "" {
		globalDir := filepath.Join(home, ".config", "aether")
		loadOnce(filepath.Join(globalDir, "aether.json"))
		loadOnce(filepath.Join(globalDir, "aether.jsonc"))
	}

	// 2. Project config
	if directory != "" {
		loadOnce(filepath.Join(directory, "aether.json"))
		loadOnce(filepath.Join(directory, "aether.jsonc"))
	}

	// 3. AETHER_CONFIG file override
	if configPath := os.Getenv("AETHER_CONFIG"); configPath != "" {
		loadOnce(configPath)
	}

	// 4. Environment variables
	applyEnvOverrides(config)

	if config.Model == "" {
		config.Model = DefaultModel
	}

	return config, nil
}

// loadConfigFile loads a single config file with interpolation support.
func loadConfigFile(path string, config *types.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err // File doesn't exist, skip
	}

	// Strip JSONC comments using tidwall/jsonc
	data = jsonc.ToJSON(data)

	// Apply {env:VAR} interpolation
	data = interpolate(data)

	var fileConfig types.Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return err
	}

	mergeConfig(config, &fileConfig)
	return nil
}

var envPattern = regexp.MustCompile(`\{env:([^}]+)\}`)

// interpolate replaces {env:VAR_NAME} placeholders with environment values.
func interpolate(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := envPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(varName)))
	})
}

// mergeConfig merges src into dst; src values win.
func mergeConfig(dst, src *types.Config) {
	if src.Port != 0 {
		dst.Port = src.Port
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.SerpAPIKey != "" {
		dst.SerpAPIKey = src.SerpAPIKey
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	for id, pc := range src.Provider {
		if dst.Provider == nil {
			dst.Provider = make(map[string]types.ProviderConfig)
		}
		dst.Provider[id] = pc
	}
	for name, mc := range src.MCP {
		if dst.MCP == nil {
			dst.MCP = make(map[string]types.MCPConfig)
		}
		dst.MCP[name] = mc
	}
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *types.Config) {
	if port := os.Getenv("AETHER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Port = p
		}
	}
	if model := os.Getenv("AETHER_MODEL"); model != "" {
		config.Model = model
	}
	if level := os.Getenv("AETHER_LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}
	if key := os.Getenv("SERPAPI_KEY"); key != "" {
		config.SerpAPIKey = key
	}

	// AI gateway credentials (OpenAI-compatible endpoint)
	if baseURL := os.Getenv("AETHER_AI_BASE_URL"); baseURL != "" {
		pc := config.Provider["gateway"]
		pc.BaseURL = baseURL
		if key := os.Getenv("AETHER_AI_API_KEY"); key != "" {
			pc.APIKey = key
		}
		if config.Provider == nil {
			config.Provider = make(map[string]types.ProviderConfig)
		}
		config.Provider["gateway"] = pc
	}

	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		pc := config.Provider["anthropic"]
		pc.APIKey = key
		if config.Provider == nil {
			config.Provider = make(map[string]types.ProviderConfig)
		}
		config.Provider["anthropic"] = pc
	}
}
