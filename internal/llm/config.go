package llm

import (
	"os"
	"strconv"
)

// Config holds the generation subsystem settings.
type Config struct {
	Endpoint    string  `yaml:"endpoint"`
	Model       string  `yaml:"model"`
	TimeoutMs   int     `yaml:"timeout_ms"`
	MaxRetries  int     `yaml:"max_retries"`
	BackoffMs   int     `yaml:"backoff_ms"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// DefaultConfig returns generation defaults for a local Ollama instance.
func DefaultConfig() Config {
	return Config{
		Endpoint:    "http://localhost:11434",
		Model:       "llama3.2",
		TimeoutMs:   60000,
		MaxRetries:  2,
		BackoffMs:   500,
		MaxTokens:   2048,
		Temperature: 0.7,
	}
}

// ApplyEnv overlays PLANWEAVE_LLM_* environment variables onto cfg.
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv("PLANWEAVE_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("PLANWEAVE_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("PLANWEAVE_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("PLANWEAVE_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("PLANWEAVE_LLM_BACKOFF_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BackoffMs = n
		}
	}
	if v := os.Getenv("PLANWEAVE_LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}
	if v := os.Getenv("PLANWEAVE_LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Temperature = f
		}
	}
	return cfg
}
