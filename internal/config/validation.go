package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/brianly1003/autosort/internal/domain"
	"github.com/brianly1003/autosort/internal/domain/rules"
)

// Validate validates the configuration and returns an error if invalid.
func Validate(cfg *Config) error {
	if err := validateRules(cfg.Rules); err != nil {
		return err
	}
	if err := validateWatcher(&cfg.Watcher); err != nil {
		return err
	}
	if err := validateServer(&cfg.Server); err != nil {
		return err
	}
	if err := validateLogging(&cfg.Logging); err != nil {
		return err
	}
	if err := validateHistory(&cfg.History); err != nil {
		return err
	}
	return nil
}

func validateRules(rs []rules.Rule) error {
	for i, r := range rs {
		if err := ValidateRule(r); err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
	}
	return nil
}

// ValidateRule checks a single rule: it needs at least one extension and
// either a category or an explicit target folder.
func ValidateRule(r rules.Rule) error {
	if len(rules.NormalizeExtensions(r.Extensions)) == 0 {
		return domain.NewValidationError("extensions", "at least one extension is required")
	}
	if strings.TrimSpace(r.Category) == "" && strings.TrimSpace(r.TargetFolder) == "" {
		return domain.NewValidationError("category", "category or target_folder is required")
	}
	return nil
}

func validateWatcher(cfg *WatcherConfig) error {
	if cfg.SettleMS < 0 {
		return fmt.Errorf("watcher.settle_ms cannot be negative")
	}
	if cfg.SettleMS > 60000 {
		return fmt.Errorf("watcher.settle_ms cannot exceed 60000ms")
	}
	if cfg.StopGraceMS <= 0 {
		return fmt.Errorf("watcher.stop_grace_ms must be positive")
	}
	return nil
}

func validateServer(cfg *ServerConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Port)
	}
	if strings.TrimSpace(cfg.Host) == "" {
		return fmt.Errorf("server.host cannot be empty")
	}
	return nil
}

func validateLogging(cfg *LoggingConfig) error {
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Level)); err != nil {
		return fmt.Errorf("logging.level %q is invalid: %w", cfg.Level, err)
	}
	switch cfg.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", cfg.Format)
	}
	return nil
}

func validateHistory(cfg *HistoryConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries cannot be negative")
	}
	return nil
}
