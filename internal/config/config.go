// Package config provides configuration for the Planet App server.
//
// Config file locations (priority order):
//  1. $PLANETAPP_CONFIG
//  2. ./planetapp.yaml
//
// Environment overrides are applied after the file is read:
//   - DATABASE overrides database.path
//   - PLANETAPP_ADDR overrides listen_addr
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	ListenAddr string         `yaml:"listen_addr"`
	Database   DatabaseConfig `yaml:"database"`
	Log        LogConfig      `yaml:"log"`
}

// DatabaseConfig locates the SQLite database file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// Load finds and loads the config file, or returns defaults if none found.
func Load() (*Config, error) {
	path := findConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

// DefaultConfig returns sensible defaults for a new installation.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr: ":8080",
		Database:   DatabaseConfig{Path: "./planet.db"},
		Log:        LogConfig{Level: "info"},
	}
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./planet.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if db := os.Getenv("DATABASE"); db != "" {
		c.Database.Path = db
	}
	if addr := os.Getenv("PLANETAPP_ADDR"); addr != "" {
		c.ListenAddr = addr
	}
}

func findConfigPath() string {
	if path := os.Getenv("PLANETAPP_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat("./planetapp.yaml"); err == nil {
		return "./planetapp.yaml"
	}
	return ""
}
