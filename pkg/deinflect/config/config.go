// Package config loads rule catalogs and service settings from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/deinflect/pkg/deinflect/internalerr"
)

// ServerConfig holds the settings for the HTTP server
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	MaxConns       int      `yaml:"max_conns"`
	MaxWordRunes   int      `yaml:"max_word_runes"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RulesPath      string   `yaml:"rules"`
	// StorePath is a SQLite file, or a pogreb directory when prefixed with "kv:".
	StorePath      string   `yaml:"store"`
	Snapshot       string   `yaml:"snapshot"`
	Normalize      bool     `yaml:"normalize"`
}

// DefaultServerConfig returns the settings used when no file is given
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:           ":8080",
		MaxConns:       256,
		MaxWordRunes:   64,
		AllowedOrigins: []string{"*"},
	}
}

// LoadServerConfig loads server settings from a YAML file. Fields missing
// from the file keep their defaults.
func LoadServerConfig(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultServerConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with
func (c *ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr is empty", internalerr.ErrInvalidConfig)
	}
	if c.MaxConns < 0 {
		return fmt.Errorf("%w: max_conns must not be negative", internalerr.ErrInvalidConfig)
	}
	if c.MaxWordRunes <= 0 {
		return fmt.Errorf("%w: max_word_runes must be positive", internalerr.ErrInvalidConfig)
	}
	if c.RulesPath != "" && c.StorePath != "" {
		return fmt.Errorf("%w: rules and store are mutually exclusive", internalerr.ErrInvalidConfig)
	}
	return nil
}
