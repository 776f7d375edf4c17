// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Alert modes control what happens to bridge notifications when no modal
// surface is available (e.g. host platform absent).
const (
	AlertsModal  = "modal"
	AlertsLog    = "log"
	AlertsSilent = "silent"
)

// DefaultAPIURL is the backend base path used when no override is given.
const DefaultAPIURL = "http://localhost:8001/api"

// Config holds all configuration values for avtomat.
type Config struct {
	APIURL         string `mapstructure:"api_url" yaml:"api_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	InitData       string `mapstructure:"init_data" yaml:"init_data"`
	ThemeParams    string `mapstructure:"theme_params" yaml:"theme_params"`
	BotToken       string `mapstructure:"bot_token" yaml:"bot_token"`
	Alerts         string `mapstructure:"alerts" yaml:"alerts"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
	LogFile        string `mapstructure:"log_file" yaml:"log_file"`
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("avtomat")

	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("timeout_seconds", 10)
	v.SetDefault("init_data", "")
	v.SetDefault("theme_params", "")
	v.SetDefault("bot_token", "")
	v.SetDefault("alerts", AlertsModal)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	// Setup ENV binding with AVTOMAT_ prefix
	v.SetEnvPrefix("AVTOMAT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit ENV bindings for better parsing
	// Note: BindEnv errors are very rare (only invalid key names), but we check them anyway
	bindings := [][2]string{
		{"api_url", "AVTOMAT_API_URL"},
		{"timeout_seconds", "AVTOMAT_TIMEOUT_SECONDS"},
		{"init_data", "AVTOMAT_INIT_DATA"},
		{"theme_params", "AVTOMAT_THEME_PARAMS"},
		{"bot_token", "AVTOMAT_BOT_TOKEN"},
		{"alerts", "AVTOMAT_ALERTS"},
		{"log_level", "AVTOMAT_LOG_LEVEL"},
		{"log_file", "AVTOMAT_LOG_FILE"},
	}
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", b[0], err)
		}
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		// Need to set config file explicitly for merge
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Alerts {
	case AlertsModal, AlertsLog, AlertsSilent:
	default:
		return fmt.Errorf("invalid alerts mode: %s (use modal, log or silent)", c.Alerts)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be > 0, got %d", c.TimeoutSeconds)
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/avtomat/avtomat.yml or $XDG_CONFIG_HOME/avtomat/avtomat.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "avtomat", "avtomat.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "avtomat", "avtomat.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./avtomat.yml in the current working directory.
func ProjectPath() string {
	return "avtomat.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	// Create parent directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	path := ProjectPath()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
