// ABOUTME: Process configuration: data paths, Oura API settings, logging.
// ABOUTME: Layered load: defaults, then optional YAML file, then DRIVER_ env vars.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/harperreed/driver/internal/storage"
)

// Config holds process configuration for the CLI and MCP server.
type Config struct {
	// DBPath overrides the default XDG database location.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	Oura OuraConfig `koanf:"oura"`
}

// OuraConfig configures the Oura API client.
type OuraConfig struct {
	APIBase string `koanf:"api_base"`
	// APIToken is the personal access token. Required for syncing.
	APIToken string `koanf:"api_token"`
	// DaysBack is the fallback sync window when no dates are given.
	DaysBack int `koanf:"days_back"`
	// TimeoutSeconds bounds each API request.
	TimeoutSeconds int `koanf:"timeout_seconds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DBPath:   storage.DefaultDBPath(),
		LogLevel: "info",
		Oura: OuraConfig{
			APIBase:        "https://api.ouraring.com",
			DaysBack:       2,
			TimeoutSeconds: 30,
		},
	}
}

// Load builds a Config by layering defaults, an optional YAML file named
// by DRIVER_CONFIG, and DRIVER_-prefixed environment variables, e.g.
// DRIVER_DB_PATH or DRIVER_OURA.API_TOKEN.
func Load() (*Config, error) {
	cfg := *Default()

	k := koanf.New(".")
	if path := os.Getenv("DRIVER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := env.Provider("DRIVER_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "driver_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.DBPath == "" {
		return nil, errors.New("db_path must not be empty")
	}
	if cfg.Oura.DaysBack < 1 {
		cfg.Oura.DaysBack = 1
	}
	return &cfg, nil
}
