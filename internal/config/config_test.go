package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	config := Default()

	if config.Cascade.MaxDepth != 100 {
		t.Errorf("expected Cascade.MaxDepth 100, got %d", config.Cascade.MaxDepth)
	}
	if config.Attention.Strength != 0.5 {
		t.Errorf("expected Attention.Strength 0.5, got %f", config.Attention.Strength)
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
cascade:
  max_depth: 25

attention:
  strength: 0.8

logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Cascade.MaxDepth != 25 {
		t.Errorf("expected MaxDepth 25, got %d", config.Cascade.MaxDepth)
	}
	if config.Attention.Strength != 0.8 {
		t.Errorf("expected Strength 0.8, got %f", config.Attention.Strength)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected Level 'debug', got '%s'", config.Logging.Level)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	// Unspecified sections keep their defaults.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("cascade:\n  max_depth: 7\n"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Cascade.MaxDepth != 7 {
		t.Errorf("expected MaxDepth 7, got %d", config.Cascade.MaxDepth)
	}
	if config.Attention.Strength != 0.5 {
		t.Errorf("expected default Strength 0.5, got %f", config.Attention.Strength)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("cascade: [not a mapping"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFromFile(configPath); err == nil || !strings.Contains(err.Error(), "parsing") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero depth", func(c *Config) { c.Cascade.MaxDepth = 0 }, true},
		{"negative strength", func(c *Config) { c.Attention.Strength = -0.1 }, true},
		{"strength above one", func(c *Config) { c.Attention.Strength = 1.1 }, true},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"empty level", func(c *Config) { c.Logging.Level = "" }, false},
		{"trace level", func(c *Config) { c.Logging.Level = "trace" }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			config := Default()
			tc.mutate(config)
			err := config.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("O3_CASCADE_MAX_DEPTH", "42")
	t.Setenv("O3_ATTENTION_STRENGTH", "0.75")
	t.Setenv("O3_LOG_LEVEL", "trace")

	config := Default()
	applyEnvOverrides(config)

	if config.Cascade.MaxDepth != 42 {
		t.Errorf("expected MaxDepth 42, got %d", config.Cascade.MaxDepth)
	}
	if config.Attention.Strength != 0.75 {
		t.Errorf("expected Strength 0.75, got %f", config.Attention.Strength)
	}
	if config.Logging.Level != "trace" {
		t.Errorf("expected Level 'trace', got '%s'", config.Logging.Level)
	}
}

func TestEnvOverridesIgnoreMalformed(t *testing.T) {
	t.Setenv("O3_CASCADE_MAX_DEPTH", "many")
	t.Setenv("O3_ATTENTION_STRENGTH", "strong")

	config := Default()
	applyEnvOverrides(config)

	if config.Cascade.MaxDepth != 100 || config.Attention.Strength != 0.5 {
		t.Error("malformed env values must leave defaults intact")
	}
}
