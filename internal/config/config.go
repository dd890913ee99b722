// Package config loads server configuration from an optional YAML file with
// PLANWEAVE_* environment overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/planweave/planweave/internal/llm"
)

// Config holds everything the server binary needs to start.
type Config struct {
	ListenAddr string     `yaml:"listen_addr"`
	DBPath     string     `yaml:"db_path"`
	LLM        llm.Config `yaml:"llm"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr: ":8080",
		DBPath:     "planweave.db",
		LLM:        llm.DefaultConfig(),
	}
}

// Load reads the YAML file at path (when path is non-empty and the file
// exists), then applies environment overrides. Defaults fill anything left
// unset.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
			}
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("decoding config file %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("PLANWEAVE_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("PLANWEAVE_DB"); v != "" {
		cfg.DBPath = v
	}
	cfg.LLM = llm.ApplyEnv(cfg.LLM)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if c.LLM.Endpoint == "" {
		return fmt.Errorf("llm.endpoint must not be empty")
	}
	return nil
}
