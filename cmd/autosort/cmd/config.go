package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brianly1003/autosort/internal/config"
)

var (
	configInitLocal bool
	configInitForce bool
)

// configCmd displays or manages configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display and manage configuration",
	Long: `Display and manage autosort configuration.

Without subcommands, shows the current effective configuration.

Examples:
  autosort config                                  # Show current config
  autosort config init                             # Create config file with defaults
  autosort config path                             # Show config file location
  autosort config set source_folder ~/Downloads    # Set a value`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(store.Snapshot().Config())
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n%s", store.Path(), out)
		return nil
	},
}

// configInitCmd creates a config file with defaults.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file with default settings",
	Long: `Create a config file with default settings.

By default, creates ~/.autosort/config.yaml.
Use --local to create ./config.yaml in the current directory.`,
	RunE: runConfigInit,
}

// configPathCmd shows config file location.
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file location",
	RunE:  runConfigPath,
}

// configSetCmd sets a top-level config value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Supported keys:

  source_folder, default_target_folder, auto_start, show_notifications`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().BoolVar(&configInitLocal, "local", false, "create config in current directory instead of ~/.autosort/")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	var configPath string

	if configInitLocal {
		configPath = "config.yaml"
	} else {
		configDir, err := config.EnsureConfigDir()
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		configPath = filepath.Join(configDir, "config.yaml")
	}

	if _, err := os.Stat(configPath); err == nil && !configInitForce {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", configPath)
	}

	if err := config.Save(configPath, config.Default(configPath)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Created %s\n", configPath)
	fmt.Println("Set source_folder and default_target_folder, then run \"autosort start\".")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config dir: %w", err)
	}

	locations := []string{
		"./config.yaml",
		filepath.Join(configDir, "config.yaml"),
		"/etc/autosort/config.yaml",
	}

	fmt.Println("Config search paths (in order):")
	for i, loc := range locations {
		exists := "not found"
		if _, err := os.Stat(loc); err == nil {
			exists = "exists"
		}
		fmt.Printf("  %d. %s (%s)\n", i+1, loc, exists)
	}

	if store, err := openStore(); err == nil {
		fmt.Printf("\nIn use: %s\n", store.Path())
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	store, err := openStore()
	if err != nil {
		return err
	}
	cfg := store.Snapshot().Config()

	switch key {
	case "source_folder", "default_target_folder":
		abs, err := filepath.Abs(value)
		if err != nil {
			return err
		}
		if key == "source_folder" {
			cfg.SourceFolder = abs
		} else {
			cfg.DefaultTargetFolder = abs
		}
	case "auto_start", "show_notifications":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false", key)
		}
		if key == "auto_start" {
			cfg.AutoStart = b
		} else {
			cfg.ShowNotifications = b
		}
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := store.Persist(config.NewSnapshot(cfg)); err != nil {
		return err
	}
	fmt.Printf("Set %s = %s in %s\n", key, value, store.Path())
	return nil
}
