package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/brianly1003/autosort/internal/app"
	"github.com/brianly1003/autosort/internal/instance"
	"github.com/brianly1003/autosort/internal/logging"
)

var startFolder string

// startCmd represents the start command.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the autosort daemon",
	Long: `Start the autosort daemon. Monitoring resumes if it was on when the
daemon last stopped, or immediately when auto_start is set.

Example:
  autosort start
  autosort start --folder ~/Downloads
  AUTOSORT_SERVER_PORT=9000 autosort start`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVar(&startFolder, "folder", "", "source folder to watch (persisted)")
}

func runStart(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	if startFolder != "" {
		folder, err := filepath.Abs(startFolder)
		if err != nil {
			return fmt.Errorf("invalid folder: %w", err)
		}
		snap := store.Snapshot().WithSourceFolder(folder)
		if err := store.Persist(snap); err != nil {
			return fmt.Errorf("failed to save source folder: %w", err)
		}
	}

	cfg := store.Snapshot().Config()
	logs := logging.Setup(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		File:        cfg.Logging.File,
		FileEnabled: cfg.Logging.FileEnabled,
		Verbose:     verbose,
	})
	defer logs.Close()

	lock := instance.New(instance.PathFor(store.Path()))
	if err := lock.Acquire(); err != nil {
		if errors.Is(err, instance.ErrAlreadyRunning) {
			return fmt.Errorf("%w (lock: %s)", err, lock.Path())
		}
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			log.Warn().Err(err).Msg("failed to release daemon lock")
		}
	}()

	log.Info().
		Str("version", version).
		Str("config", store.Path()).
		Str("source_folder", cfg.SourceFolder).
		Msg("starting autosort")

	application := app.New(store, logs, version)

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("application error: %w", err)
	}

	log.Info().Msg("autosort stopped")
	return nil
}
