// Package config loads the CLI/server configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the logcrunch configuration.
type Config struct {
	Bind      string `yaml:"bind"`
	Port      int    `yaml:"port"`
	Workers   int    `yaml:"workers"`     // 0 = use all CPUs
	MaxBodyMB int    `yaml:"max_body_mb"` // request body limit for the REST adapter
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Bind:      "127.0.0.1",
		Port:      8090,
		Workers:   0,
		MaxBodyMB: 64,
	}
}

// LoadConfig loads configuration from the specified path.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.MaxBodyMB <= 0 {
		return nil, fmt.Errorf("invalid max_body_mb: %d", cfg.MaxBodyMB)
	}
	return cfg, nil
}

// SaveConfig saves the configuration to the specified path.
func SaveConfig(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
