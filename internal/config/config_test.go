package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// clearAmbientEnv keeps machine-level settings from leaking into tests.
func clearAmbientEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"AETHER_CONFIG", "AETHER_PORT", "AETHER_MODEL", "AETHER_LOG_LEVEL", "SERPAPI_KEY", "AETHER_AI_BASE_URL", "AETHER_AI_API_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearAmbientEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, cfg.Model)
}

func TestLoadProjectConfig(t *testing.T) {
	clearAmbientEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "aether.json", `{
		"port": 9000,
		"model": "anthropic/claude-sonnet-4-20250514",
		"serpApiKey": "sk-test"
	}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "anthropic/claude-sonnet-4-20250514", cfg.Model)
	assert.Equal(t, "sk-test", cfg.SerpAPIKey)
}

func TestLoadJSONCWithComments(t *testing.T) {
	clearAmbientEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "aether.jsonc", `{
		// selected model
		"model": "gateway/gpt-4o",
	}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "gateway/gpt-4o", cfg.Model)
}

func TestEnvInterpolation(t *testing.T) {
	clearAmbientEnv(t)
	t.Setenv("TEST_SERP_KEY", "from-env")
	dir := t.TempDir()
	writeConfig(t, dir, "aether.json", `{"serpApiKey": "{env:TEST_SERP_KEY}"}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.SerpAPIKey)
}

func TestEnvOverridesBeatFiles(t *testing.T) {
	clearAmbientEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "aether.json", `{"model": "gateway/from-file", "port": 1111}`)
	t.Setenv("AETHER_MODEL", "gateway/from-env")
	t.Setenv("AETHER_PORT", "2222")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "gateway/from-env", cfg.Model)
	assert.Equal(t, 2222, cfg.Port)
}

func TestGatewayCredentialsFromEnv(t *testing.T) {
	clearAmbientEnv(t)
	t.Setenv("AETHER_AI_BASE_URL", "https://gateway.example.com/v1")
	t.Setenv("AETHER_AI_API_KEY", "key-123")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	gw, ok := cfg.Provider["gateway"]
	require.True(t, ok)
	assert.Equal(t, "https://gateway.example.com/v1", gw.BaseURL)
	assert.Equal(t, "key-123", gw.APIKey)
}

func TestMCPConfig(t *testing.T) {
	clearAmbientEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "aether.json", `{
		"mcp": {
			"calculator": {
				"type": "local",
				"command": ["./calculator-mcp"]
			}
		}
	}`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	mc, ok := cfg.MCP["calculator"]
	require.True(t, ok)
	assert.Equal(t, "local", mc.Type)
	assert.Equal(t, []string{"./calculator-mcp"}, mc.Command)
}
