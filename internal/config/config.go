// Package config loads codeslots settings from flags, environment, an
// optional YAML file and built-in defaults through viper.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete codeslots configuration
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Runner  RunnerConfig  `mapstructure:"runner"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StoreConfig controls where slots are persisted
type StoreConfig struct {
	// Path is the JSON document holding every slot (default: my_code_slots.json)
	Path string `mapstructure:"path"`
}

// RunnerConfig controls snippet execution
type RunnerConfig struct {
	// Language selects the interpreter: "starlark" (default), "javascript" or "tengo"
	Language string `mapstructure:"language"`
	// TimeoutSeconds cancels a run after this many seconds (0 = no timeout)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// MaxSteps caps starlark execution steps (0 = unlimited)
	MaxSteps uint64 `mapstructure:"max_steps"`
	// MaxAllocs caps tengo object allocations (0 = unlimited)
	MaxAllocs int64 `mapstructure:"max_allocs"`
	// MaxOutputChars truncates captured output (0 = unlimited)
	MaxOutputChars int `mapstructure:"max_output_chars"`
}

// TUIConfig controls the terminal UI
type TUIConfig struct {
	// ShowLineNumbers draws a line number gutter in the editor
	ShowLineNumbers bool `mapstructure:"show_line_numbers"`
	// WatchStore reloads slots when another process rewrites the document
	WatchStore bool `mapstructure:"watch_store"`
}

// LoggingConfig controls the debug log
type LoggingConfig struct {
	// Enabled turns file logging on (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is one of DEBUG, INFO, WARN, ERROR (default: INFO)
	Level string `mapstructure:"level"`
	// File is the log file path (default: <config dir>/codeslots.log)
	File string `mapstructure:"file"`
	// MaxSizeMB rotates the log file after this many megabytes
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated files to keep
	MaxBackups int `mapstructure:"max_backups"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Path: "my_code_slots.json",
		},
		Runner: RunnerConfig{
			Language:       "starlark",
			TimeoutSeconds: 0,
			MaxSteps:       0,
			MaxAllocs:      0,
			MaxOutputChars: 0,
		},
		TUI: TUIConfig{
			ShowLineNumbers: true,
			WatchStore:      true,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "INFO",
			File:       filepath.Join(ConfigDir(), "codeslots.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Timeout returns the run timeout as a time.Duration (0 means disabled)
func (c *RunnerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Store defaults
	viper.SetDefault("store.path", defaults.Store.Path)

	// Runner defaults
	viper.SetDefault("runner.language", defaults.Runner.Language)
	viper.SetDefault("runner.timeout_seconds", defaults.Runner.TimeoutSeconds)
	viper.SetDefault("runner.max_steps", defaults.Runner.MaxSteps)
	viper.SetDefault("runner.max_allocs", defaults.Runner.MaxAllocs)
	viper.SetDefault("runner.max_output_chars", defaults.Runner.MaxOutputChars)

	// TUI defaults
	viper.SetDefault("tui.show_line_numbers", defaults.TUI.ShowLineNumbers)
	viper.SetDefault("tui.watch_store", defaults.TUI.WatchStore)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom is Load for an explicit viper instance
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "codeslots")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codeslots"
	}
	return filepath.Join(home, ".config", "codeslots")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
