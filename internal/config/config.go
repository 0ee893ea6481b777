package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvViscribeAPIKey  = "VISCRIBE_API_KEY"
	EnvViscribeBaseURL = "VISCRIBE_BASE_URL"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvJWTSecret       = "VISCRIBE_JWT_SECRET"
)

// Config holds the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Viscribe ViscribeConfig `yaml:"viscribe"`
	Agent    AgentConfig    `yaml:"agent"`
	LogLevel string         `yaml:"log_level"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// JWTSecret enables HS256 bearer-token auth on /api when set.
	JWTSecret string `yaml:"jwt_secret"`
	// AllowLocalPaths lets HTTP and MCP-over-HTTP callers send *_path
	// image sources, which are read from this machine's filesystem.
	AllowLocalPaths bool `yaml:"allow_local_paths"`
}

// ViscribeConfig holds the remote service connection settings.
type ViscribeConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// AgentConfig holds the LLM settings for the chat agent.
type AgentConfig struct {
	Provider string `yaml:"provider"` // e.g. "gemini"
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	MaxTurns int    `yaml:"max_turns"`
}

// defaults returns a Config populated with sensible default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Viscribe: ViscribeConfig{
			BaseURL: "https://api.viscribe.ai/v1",
			Timeout: 60 * time.Second,
		},
		Agent: AgentConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			MaxTurns: 10,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML configuration file at path and returns a Config with
// environment overrides applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadDefault loads ".env" (if present) into the process environment,
// then tries "config.yaml" from the current directory. A missing file
// yields defaults; any other error is returned.
func LoadDefault() (*Config, error) {
	return LoadFile("config.yaml")
}

// LoadFile is LoadDefault for an explicit path.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = defaults()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvViscribeAPIKey); v != "" {
		c.Viscribe.APIKey = v
	}
	if v := os.Getenv(EnvViscribeBaseURL); v != "" {
		c.Viscribe.BaseURL = v
	}
	if v := os.Getenv(EnvGeminiAPIKey); v != "" {
		c.Agent.APIKey = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		c.Server.JWTSecret = v
	}
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// SlogLevel maps LogLevel to a slog.Level; unknown values are info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
