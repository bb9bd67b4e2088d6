package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// supported model providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
	LLM     LLMConfig     `yaml:"llm" json:"llm" jsonschema:"description=Generative model configuration for app analysis"`
	Journal JournalConfig `yaml:"journal" json:"journal" jsonschema:"description=Run journal configuration"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Listen   string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	PollWait time.Duration `yaml:"poll_wait" json:"poll_wait" jsonschema:"default=25s,description=Maximum time a result long-poll waits before returning"`
}

// LLMConfig holds generative model configuration
type LLMConfig struct {
	Provider         string        `yaml:"provider" json:"provider" jsonschema:"enum=gemini,enum=openai,default=gemini,description=Model provider"`
	Endpoint         string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=Custom API base URL (optional)"`
	APIKeyEnv        string        `yaml:"api_key_env" json:"api_key_env" jsonschema:"default=API_KEY,description=Environment variable holding the API key"`
	Model            string        `yaml:"model" json:"model" jsonschema:"description=Model name (defaults per provider)"`
	Temperature      float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens        int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"description=Maximum tokens in response (0 means provider default)"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=120s,description=Analysis request timeout"`
	DisableWebSearch bool          `yaml:"disable_web_search" json:"disable_web_search" jsonschema:"default=false,description=Do not grant the web search tool to the model"`
	SystemPrompt     string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt override (optional)"`
}

// JournalConfig holds run journal settings
type JournalConfig struct {
	Enabled         bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Record operational metadata of analysis runs"`
	DSN             string        `yaml:"dsn" json:"dsn" jsonschema:"default=file:appscope.db?cache=shared&mode=rwc&_txlock=immediate,description=Database connection string"`
	Retention       time.Duration `yaml:"retention" json:"retention" jsonschema:"default=720h,description=How long journal entries are kept"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" json:"cleanup_interval" jsonschema:"default=1h,description=How often old journal entries are pruned"`
}

// default models per provider
var defaultModels = map[string]string{
	ProviderGemini: "gemini-3-pro-preview",
	ProviderOpenAI: "gpt-4o-search-preview",
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return finalize(&cfg)
}

// Default returns configuration with all defaults applied
func Default() (*Config, error) {
	return finalize(&Config{})
}

func finalize(cfg *Config) (*Config, error) {
	setDefaults(cfg)

	// validate configuration
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}
	if cfg.Server.PollWait == 0 {
		cfg.Server.PollWait = 25 * time.Second
	}

	// set defaults for LLM
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderGemini
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "API_KEY"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModels[cfg.LLM.Provider]
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 120 * time.Second
	}

	// set defaults for journal
	if cfg.Journal.DSN == "" {
		cfg.Journal.DSN = "file:appscope.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Journal.Retention == 0 {
		cfg.Journal.Retention = 30 * 24 * time.Hour
	}
	if cfg.Journal.CleanupInterval == 0 {
		cfg.Journal.CleanupInterval = time.Hour
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// validate LLM config
	if _, ok := defaultModels[cfg.LLM.Provider]; !ok {
		return fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, cfg.LLM.Provider)
	}
	if cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.MaxTokens < 0 {
		return fmt.Errorf("llm.max_tokens must be non-negative")
	}
	if cfg.LLM.Timeout < time.Second {
		return fmt.Errorf("llm.timeout must be at least 1 second")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Server.PollWait >= cfg.Server.Timeout {
		return fmt.Errorf("server.poll_wait (%v) must be shorter than server.timeout (%v)", cfg.Server.PollWait, cfg.Server.Timeout)
	}

	// validate journal config
	if cfg.Journal.Enabled && cfg.Journal.CleanupInterval < time.Minute {
		return fmt.Errorf("journal.cleanup_interval must be at least 1 minute")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetPollWait returns the long-poll wait limit
func (c *Config) GetPollWait() time.Duration {
	return c.Server.PollWait
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}
