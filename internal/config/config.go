// Package config loads server settings.
//
// Precedence (lowest first): built-in defaults, optional YAML file, environment.
// The CLI loads a .env file into the environment before calling Load.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting.
type Config struct {
	Port         string        `yaml:"port"`
	LogLevel     string        `yaml:"log_level"`
	LogFormat    string        `yaml:"log_format"` // json | console
	APIBase      string        `yaml:"api_base"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	StoreDriver  string        `yaml:"store_driver"` // sqlite | file | memory
	StoreDir     string        `yaml:"store_dir"`
	DBPath       string        `yaml:"db_path"`
	ClientOrigin string        `yaml:"client_origin"`
	FallbackFile string        `yaml:"fallback_file"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Port:         "5175",
		LogLevel:     "info",
		LogFormat:    "json",
		APIBase:      "https://api.pollar.pl",
		FetchTimeout: 10 * time.Second,
		StoreDriver:  "sqlite",
		StoreDir:     "./data",
		DBPath:       "./data/powiazania.db",
		ClientOrigin: "http://localhost:5173",
	}
}

// Load builds the config from defaults, the YAML file at path (skipped when
// path is empty) and environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	str := map[string]*string{
		"PORT":                 &c.Port,
		"LOG_LEVEL":            &c.LogLevel,
		"LOG_FORMAT":           &c.LogFormat,
		"API_BASE":             &c.APIBase,
		"STORE_DRIVER":         &c.StoreDriver,
		"STORE_DIR":            &c.StoreDir,
		"DB_PATH":              &c.DBPath,
		"CLIENT_ORIGIN":        &c.ClientOrigin,
		"FALLBACK_PUZZLE_FILE": &c.FallbackFile,
	}
	for k, dst := range str {
		if v := os.Getenv(k); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FETCH_TIMEOUT: %w", err)
		}
		c.FetchTimeout = d
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.APIBase == "" {
		return fmt.Errorf("api_base must be set")
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must not be negative")
	}
	return nil
}
