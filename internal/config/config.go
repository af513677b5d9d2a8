// Package config provides configuration management for rdml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the rdml configuration.
type Config struct {
	SourceDir    string   `yaml:"source_dir,omitempty"`
	BaseURL      string   `yaml:"base_url,omitempty"`
	Paths        []string `yaml:"paths,omitempty"`
	OutputFormat string   `yaml:"output_format,omitempty"`
	OutFile      string   `yaml:"out_file,omitempty"`
}

// Validate checks that a script source is configured and every field is
// well formed.
func (c *Config) Validate() error {
	if c.SourceDir == "" && c.BaseURL == "" {
		return errors.New("source_dir or base_url is required")
	}
	if c.BaseURL != "" &&
		!strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return errors.New("base_url must use http or https")
	}
	for i, p := range c.Paths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("paths[%d] is empty", i)
		}
		if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
			return fmt.Errorf("paths[%d] must be relative: %s", i, p)
		}
	}
	return nil
}

// NormalizeBaseURL ensures the base URL ends in the /rdml script folder.
func (c *Config) NormalizeBaseURL() {
	if c.BaseURL == "" {
		return
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if !strings.HasSuffix(c.BaseURL, "/rdml") {
		c.BaseURL = c.BaseURL + "/rdml"
	}
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
func (c *Config) LoadFromEnv() {
	if dir := os.Getenv("RDML_SOURCE_DIR"); dir != "" {
		c.SourceDir = dir
	}
	if url := os.Getenv("RDML_BASE_URL"); url != "" {
		c.BaseURL = url
	}
	if paths := os.Getenv("RDML_PATHS"); paths != "" {
		c.Paths = SplitPaths(paths)
	}
	if output := os.Getenv("RDML_OUTPUT"); output != "" {
		c.OutputFormat = output
	}
}

// EnvVars lists the environment variables read by LoadFromEnv.
var EnvVars = []string{"RDML_SOURCE_DIR", "RDML_BASE_URL", "RDML_PATHS", "RDML_OUTPUT"}

// SplitPaths splits a comma separated path list, dropping empty entries.
func SplitPaths(s string) []string {
	var paths []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "rdml", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".rdml", "config.yml")
	}

	return filepath.Join(home, ".config", "rdml", "config.yml")
}

// ResolvePath returns path, or the default path when it is empty.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	return DefaultConfigPath()
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment
// variables. A missing file yields an empty configuration; a file that
// exists but cannot be parsed is an error.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
