// Package config provides unified configuration loading for o3.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config contains all o3 simulation settings.
type Config struct {
	// Cascade contains settings for firing-cascade propagation.
	Cascade CascadeConfig `json:"cascade" yaml:"cascade"`

	// Attention contains settings for the conscious tier.
	Attention AttentionConfig `json:"attention" yaml:"attention"`

	// Logging contains settings for operational and trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// CascadeConfig bounds signal propagation.
type CascadeConfig struct {
	// MaxDepth is the hop limit for a single firing cascade. Deliveries
	// beyond it are dropped and counted.
	MaxDepth int `json:"max_depth" yaml:"max_depth"`
}

// AttentionConfig configures the conscious tier's attention mechanism.
type AttentionConfig struct {
	// Strength is the strength of synthesized attention signals.
	Strength float64 `json:"strength" yaml:"strength"`
}

// LoggingConfig configures o3's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables firing-trace logging; "trace" additionally logs
	// per-signal payloads.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Cascade: CascadeConfig{
			MaxDepth: 100,
		},
		Attention: AttentionConfig{
			Strength: 0.5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.o3/config.yaml -> environment variables
func Load() (*Config, error) {
	config := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".o3", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Cascade.MaxDepth < 1 {
		return fmt.Errorf("cascade max_depth must be positive, got %d", c.Cascade.MaxDepth)
	}

	if c.Attention.Strength < 0 || c.Attention.Strength > 1 {
		return fmt.Errorf("attention strength must be between 0 and 1, got %f", c.Attention.Strength)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("O3_CASCADE_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Cascade.MaxDepth = n
		}
	}

	if v := os.Getenv("O3_ATTENTION_STRENGTH"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Attention.Strength = f
		}
	}

	if v := os.Getenv("O3_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
