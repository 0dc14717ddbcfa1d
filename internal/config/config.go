// Package config loads the CLI's storage configuration.
//
// Sources are applied in order, later ones winning:
//  1. DefaultConfig
//  2. an optional YAML (or JSON) file
//  3. COLLECTIONIZE_* environment variables
//
// The result is validated before it is returned.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/roach88/collectionize/internal/backend"
	"github.com/roach88/collectionize/internal/collection"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "COLLECTIONIZE_"

// Default values.
const (
	DefaultDriver   = backend.DriverSQLite
	DefaultPath     = "collectionize.db"
	DefaultLogLevel = "info"
)

// Config is the complete CLI configuration.
type Config struct {
	// Driver selects the storage backend: memory, sqlite, bolt or dynamodb.
	Driver string `yaml:"driver" env:"DRIVER"`

	// Path is the database file for the sqlite and bolt drivers.
	Path string `yaml:"path" env:"PATH"`

	// KeyPrefix is prepended to the collection name to form the storage key.
	KeyPrefix string `yaml:"key_prefix" env:"KEY_PREFIX"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	DynamoDB DynamoDBConfig `yaml:"dynamodb" envPrefix:"DYNAMODB_"`
}

// DynamoDBConfig configures the dynamodb driver.
type DynamoDBConfig struct {
	Table  string `yaml:"table" env:"TABLE"`
	Region string `yaml:"region" env:"REGION"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Driver:    DefaultDriver,
		Path:      DefaultPath,
		KeyPrefix: collection.DefaultKeyPrefix,
		LogLevel:  DefaultLogLevel,
	}
}

// Load builds a Config from defaults, the file at path (skipped when path is
// empty) and the process environment.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, nil)
}

// LoadWithEnv is Load with an explicit environment. A nil environ reads the
// process environment.
func LoadWithEnv(path string, environ map[string]string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		// JSON is a subset of YAML 1.2; one decoder covers both.
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file extension: %s", ext)
	}
	return nil
}

// applyDefaults fills fields a file or environment blanked out.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Driver == "" {
		c.Driver = d.Driver
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = d.KeyPrefix
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	c.Driver = strings.ToLower(c.Driver)
	c.LogLevel = strings.ToLower(c.LogLevel)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}

	if !slices.Contains(backend.Drivers, c.Driver) {
		return fmt.Errorf("driver must be one of %s, got %q",
			strings.Join(backend.Drivers, ", "), c.Driver)
	}

	switch c.Driver {
	case backend.DriverSQLite, backend.DriverBolt:
		if c.Path == "" {
			return fmt.Errorf("path is required for the %s driver", c.Driver)
		}
	case backend.DriverDynamoDB:
		if c.DynamoDB.Table == "" {
			return fmt.Errorf("dynamodb.table is required for the dynamodb driver")
		}
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Backend returns the backend settings.
func (c *Config) Backend() backend.Config {
	return backend.Config{
		Driver: c.Driver,
		Path:   c.Path,
		Table:  c.DynamoDB.Table,
		Region: c.DynamoDB.Region,
	}
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	lvl, _ := ParseLevel(c.LogLevel)
	return lvl
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level must be debug, info, warn or error, got %q", name)
	}
}
