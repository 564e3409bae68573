// Package config provides configuration management.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"salespipe/internal/errors"
	"salespipe/internal/logging"
)

// envPrefix is the prefix for environment variable overrides.
// SALESPIPE_SERVER__PORT=9090 overrides server.port.
const envPrefix = "SALESPIPE_"

// Config is the main application configuration
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Logging  logging.Config `koanf:"logging"`
}

// ServerConfig contains job API server settings
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	Mode string `koanf:"mode"` // debug | release
}

// PipelineConfig contains default pipeline run settings.
// CLI flags and API request fields override these per run.
type PipelineConfig struct {
	// BatchSize is the number of raw rows pulled per read
	BatchSize int `koanf:"batch_size"`

	// AnomalyLimit caps the ranked anomaly shortlist
	AnomalyLimit int `koanf:"anomaly_limit"`

	// TopProductsLimit caps the product ranking
	TopProductsLimit int `koanf:"top_products_limit"`

	// OutputDir is the default directory for output artifacts
	OutputDir string `koanf:"output_dir"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Mode: "release",
		},
		Pipeline: PipelineConfig{
			BatchSize:        1000,
			AnomalyLimit:     5,
			TopProductsLimit: 10,
			OutputDir:        "data/processed",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Validate checks the configuration for correctness
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Newf(errors.TypeConfig, "invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return errors.Config("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return errors.Newf(errors.TypeConfig, "invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}
	if c.Pipeline.BatchSize <= 0 {
		return errors.Config("pipeline.batch_size must be > 0")
	}
	if c.Pipeline.AnomalyLimit <= 0 {
		return errors.Config("pipeline.anomaly_limit must be > 0")
	}
	if c.Pipeline.TopProductsLimit <= 0 {
		return errors.Config("pipeline.top_products_limit must be > 0")
	}
	if strings.TrimSpace(c.Pipeline.OutputDir) == "" {
		return errors.Config("pipeline.output_dir is required")
	}
	return nil
}

// Load parses config from an optional YAML file plus env overrides,
// then validates it. An empty path loads defaults + env only.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := Default()
	for key, value := range map[string]interface{}{
		"server.host":                 defaults.Server.Host,
		"server.port":                 defaults.Server.Port,
		"server.mode":                 defaults.Server.Mode,
		"pipeline.batch_size":         defaults.Pipeline.BatchSize,
		"pipeline.anomaly_limit":      defaults.Pipeline.AnomalyLimit,
		"pipeline.top_products_limit": defaults.Pipeline.TopProductsLimit,
		"pipeline.output_dir":         defaults.Pipeline.OutputDir,
		"logging.level":               defaults.Logging.Level,
		"logging.format":              defaults.Logging.Format,
		"logging.output":              defaults.Logging.Output,
	} {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, errors.Wrap(errors.TypeConfig, "failed to load config file", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "failed to load env vars", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "failed to unmarshal config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
