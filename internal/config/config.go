package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/saltyorg/masthead/internal/database"
)

const (
	DefaultBusyTimeoutMS = 5000
	DefaultLogLevel      = "info"
	DefaultMaxSizeMB     = 50
	DefaultMaxBackups    = 5
	DefaultMaxAgeDays    = 30
)

// Config is the root configuration loaded from YAML.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig contains SQLite connection settings.
type DatabaseConfig struct {
	// Path is a file path or ":memory:" for a private in-memory database.
	Path        string `yaml:"path"`
	ForeignKeys bool   `yaml:"foreign_keys"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// LogConfig contains log level and rotating file settings.
// File output is disabled when File is empty.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        database.MemoryPath,
			BusyTimeout: DefaultBusyTimeoutMS,
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  DefaultMaxSizeMB,
			MaxBackups: DefaultMaxBackups,
			MaxAgeDays: DefaultMaxAgeDays,
			Compress:   true,
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout must not be negative")
	}

	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of trace, debug, info, warn, error", c.Log.Level)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation limits must not be negative")
	}

	return nil
}

// DatabaseOptions converts the database section into open options.
func (c *Config) DatabaseOptions() database.Options {
	return database.Options{
		Path:        c.Database.Path,
		ForeignKeys: c.Database.ForeignKeys,
		BusyTimeout: c.Database.BusyTimeout,
	}
}
