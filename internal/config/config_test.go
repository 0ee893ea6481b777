package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvViscribeAPIKey, EnvViscribeBaseURL, EnvGeminiAPIKey, EnvJWTSecret} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  host: "0.0.0.0"
  port: 9090
  jwt_secret: "s3cret"
  allow_local_paths: true
viscribe:
  api_key: "vscrb-file"
  base_url: "http://localhost:9999/v1"
  timeout: 15s
agent:
  model: "gemini-2.5-pro"
  max_turns: 4
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, "s3cret", cfg.Server.JWTSecret)
	assert.True(t, cfg.Server.AllowLocalPaths)
	assert.Equal(t, "vscrb-file", cfg.Viscribe.APIKey)
	assert.Equal(t, "http://localhost:9999/v1", cfg.Viscribe.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Viscribe.Timeout)
	assert.Equal(t, "gemini", cfg.Agent.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.Agent.Model)
	assert.Equal(t, 4, cfg.Agent.MaxTurns)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "server:\n  port: 3000\n"))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.False(t, cfg.Server.AllowLocalPaths)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "https://api.viscribe.ai/v1", cfg.Viscribe.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Viscribe.Timeout)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvViscribeAPIKey, "vscrb-env")
	t.Setenv(EnvViscribeBaseURL, "http://env/v1")
	t.Setenv(EnvGeminiAPIKey, "gemini-env")

	cfg, err := Load(writeConfig(t, "viscribe:\n  api_key: vscrb-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "vscrb-env", cfg.Viscribe.APIKey)
	assert.Equal(t, "http://env/v1", cfg.Viscribe.BaseURL)
	assert.Equal(t, "gemini-env", cfg.Agent.APIKey)
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := LoadFile("does-not-exist.yaml")
	require.NoError(t, err)
	assert.Equal(t, defaults(), cfg)
}

func TestLoadFile_DotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvViscribeAPIKey)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("VISCRIBE_API_KEY=vscrb-dotenv\n"), 0o644))

	cfg, err := LoadFile("missing.yaml")
	require.NoError(t, err)
	assert.Equal(t, "vscrb-dotenv", cfg.Viscribe.APIKey)
}
