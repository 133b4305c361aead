// Package config manages application configuration from various sources.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/zerosync-co/tintdiff/internal/term"
)

// Config is the main configuration structure for the application.
type Config struct {
	WorkingDir string   `json:"wd,omitempty" mapstructure:"wd"`
	SideBySide bool     `json:"side_by_side,omitempty" mapstructure:"side_by_side"`
	Width      int      `json:"width,omitempty" mapstructure:"width"`
	Color      string   `json:"color,omitempty" mapstructure:"color"`
	Pager      string   `json:"pager,omitempty" mapstructure:"pager"`
	PagerArgs  []string `json:"pager_args,omitempty" mapstructure:"pager_args"`
	LogLevel   string   `json:"log_level,omitempty" mapstructure:"log_level"`
}

// Application constants
const (
	defaultWidth    = 80
	defaultPager    = "less"
	defaultLogLevel = "warn"
	appName         = "tintdiff"
)

// Flags passed to the pager unless the user configures their own. They make
// less quit on a short stream, pass raw colors through, and not clear the
// screen on exit.
var defaultPagerArgs = []string{"-FRSXK"}

// Global configuration instance
var cfg *Config

// Load initializes the configuration from environment variables and config
// files. It returns an error if configuration loading fails.
func Load(workingDir string) (*Config, error) {
	if cfg != nil {
		return cfg, nil
	}

	cfg = &Config{
		WorkingDir: workingDir,
	}

	v := viper.New()
	configureViper(v)
	setDefaults(v)

	// Read global config
	if err := readConfig(v.ReadInConfig()); err != nil {
		return cfg, err
	}

	// Load and merge local config
	mergeLocalConfig(v, workingDir)

	// Apply configuration to the struct
	if err := v.Unmarshal(cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// configureViper sets up viper's configuration paths and environment variables.
func configureViper(v *viper.Viper) {
	v.SetConfigName(fmt.Sprintf(".%s", appName))
	v.SetConfigType("json")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(fmt.Sprintf("$XDG_CONFIG_HOME/%s", appName))
	v.AddConfigPath(fmt.Sprintf("$HOME/.config/%s", appName))
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.AutomaticEnv()
}

// setDefaults configures default values for configuration options.
func setDefaults(v *viper.Viper) {
	v.SetDefault("side_by_side", false)
	v.SetDefault("width", defaultWidth)
	v.SetDefault("color", string(term.ColorAuto))
	v.SetDefault("pager", defaultPager)
	v.SetDefault("pager_args", defaultPagerArgs)
	v.SetDefault("log_level", defaultLogLevel)
}

// readConfig handles the result of reading a configuration file.
func readConfig(err error) error {
	if err == nil {
		return nil
	}

	// It's okay if the config file doesn't exist
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return nil
	}

	return fmt.Errorf("failed to read config: %w", err)
}

// mergeLocalConfig loads and merges configuration from the local directory.
func mergeLocalConfig(v *viper.Viper, workingDir string) {
	local := viper.New()
	local.SetConfigName(fmt.Sprintf(".%s", appName))
	local.SetConfigType("json")
	local.AddConfigPath(workingDir)

	// Merge local config if it exists
	if err := local.ReadInConfig(); err == nil {
		v.MergeConfigMap(local.AllSettings())
	}
}

// Validate checks if the configuration is valid and applies defaults where needed.
func Validate() error {
	if cfg == nil {
		return fmt.Errorf("config not loaded")
	}

	if cfg.Width <= 0 {
		slog.Warn("invalid width, using default", "width", cfg.Width)
		cfg.Width = defaultWidth
	}

	if !term.ColorMode(cfg.Color).IsValid() {
		slog.Warn("invalid color mode, using auto", "color", cfg.Color)
		cfg.Color = string(term.ColorAuto)
	}

	if cfg.Pager == "" {
		cfg.Pager = defaultPager
	}

	return nil
}

// Get returns the current configuration.
// It's safe to call this function multiple times.
func Get() *Config {
	return cfg
}

// WorkingDirectory returns the current working directory from the configuration.
func WorkingDirectory() string {
	if cfg == nil {
		panic("config not loaded")
	}
	return cfg.WorkingDir
}
