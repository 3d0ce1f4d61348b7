// Package config handles configuration management for autosort.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/brianly1003/autosort/internal/domain/rules"
)

// Config holds all configuration for the application.
type Config struct {
	SourceFolder        string       `mapstructure:"source_folder" yaml:"source_folder"`
	DefaultTargetFolder string       `mapstructure:"default_target_folder" yaml:"default_target_folder"`
	Rules               []rules.Rule `mapstructure:"rules" yaml:"rules"`
	IsMonitoring        bool         `mapstructure:"is_monitoring" yaml:"is_monitoring"`
	AutoStart           bool         `mapstructure:"auto_start" yaml:"auto_start"`
	ShowNotifications   bool         `mapstructure:"show_notifications" yaml:"show_notifications"`

	Watcher WatcherConfig `mapstructure:"watcher" yaml:"watcher"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`

	// file is the config file this configuration was read from or will be
	// written to.
	file string
}

// WatcherConfig holds file watcher configuration.
type WatcherConfig struct {
	SettleMS            int      `mapstructure:"settle_ms" yaml:"settle_ms"`
	StopGraceMS         int      `mapstructure:"stop_grace_ms" yaml:"stop_grace_ms"`
	TransientExtensions []string `mapstructure:"transient_extensions" yaml:"transient_extensions"`
}

// ServerConfig holds the local control server configuration.
type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Host    string `mapstructure:"host" yaml:"host"`
	Port    int    `mapstructure:"port" yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	File        string `mapstructure:"file" yaml:"file"`
	FileEnabled bool   `mapstructure:"file_enabled" yaml:"file_enabled"`
}

// HistoryConfig holds classification history configuration.
type HistoryConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Path       string `mapstructure:"path" yaml:"path"`
	MaxEntries int    `mapstructure:"max_entries" yaml:"max_entries"`
}

// File returns the path of the config file backing this configuration.
func (c *Config) File() string {
	return c.file
}

// Load loads configuration from files and environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file if provided
	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default search paths
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.autosort")
		v.AddConfigPath("/etc/autosort")
	}

	// Environment variable prefix
	v.SetEnvPrefix("AUTOSORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - not an error if not found)
	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !(configPath != "" && os.IsNotExist(err)) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.file = v.ConfigFileUsed()
	if cfg.file == "" {
		cfg.file = configPath
	}
	if cfg.file == "" {
		cfg.file = DefaultConfigPath()
	}

	if err := postProcess(&cfg); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("source_folder", "")
	v.SetDefault("default_target_folder", "")
	v.SetDefault("rules", DefaultRules())
	v.SetDefault("is_monitoring", false)
	v.SetDefault("auto_start", false)
	v.SetDefault("show_notifications", true)

	// Watcher defaults
	v.SetDefault("watcher.settle_ms", 500)
	v.SetDefault("watcher.stop_grace_ms", 5000)
	v.SetDefault("watcher.transient_extensions", DefaultTransientExtensions)

	// Control server defaults
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8767)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.file_enabled", true)

	// History defaults
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
	v.SetDefault("history.max_entries", 5000)
}

// postProcess applies post-processing to configuration.
func postProcess(cfg *Config) error {
	var err error
	if cfg.SourceFolder, err = expandHome(cfg.SourceFolder); err != nil {
		return fmt.Errorf("failed to resolve source_folder: %w", err)
	}
	if cfg.DefaultTargetFolder, err = expandHome(cfg.DefaultTargetFolder); err != nil {
		return fmt.Errorf("failed to resolve default_target_folder: %w", err)
	}
	for i := range cfg.Rules {
		if cfg.Rules[i].TargetFolder, err = expandHome(cfg.Rules[i].TargetFolder); err != nil {
			return fmt.Errorf("failed to resolve rules[%d].target_folder: %w", i, err)
		}
		cfg.Rules[i].Extensions = rules.NormalizeExtensions(cfg.Rules[i].Extensions)
	}
	cfg.Watcher.TransientExtensions = rules.NormalizeExtensions(cfg.Watcher.TransientExtensions)

	configDir := filepath.Dir(cfg.file)
	if cfg.Logging.File == "" {
		cfg.Logging.File = filepath.Join(configDir, "logs", "autosort.log")
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(configDir, "history.db")
	}

	return nil
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

// Save writes cfg as YAML to path. The file is written to a temporary file
// in the same directory and renamed into place, so readers never observe a
// partially written config.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp config file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace config file: %w", err)
	}

	return nil
}

// GetConfigDir returns the user config directory for autosort.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".autosort"), nil
}

// DefaultConfigPath returns the path used when no config file exists yet.
func DefaultConfigPath() string {
	dir, err := GetConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "config.yaml")
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
