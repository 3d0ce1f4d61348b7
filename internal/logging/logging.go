// Package logging configures the zerolog global logger, the rotating log
// file behind it, and the slog logger used by the control server.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxFileSizeMB = 5
	maxBackups    = 3
)

// Options controls logger construction.
type Options struct {
	Level       string
	Format      string // "console" or "json"
	File        string
	FileEnabled bool
	Verbose     bool
	// Console receives human-facing output; defaults to os.Stderr.
	Console io.Writer
}

// Logging owns the configured outputs.
type Logging struct {
	Logger zerolog.Logger
	Slog   *slog.Logger
	level  zerolog.Level
	file   *lumberjack.Logger
}

// Setup builds loggers from opts and installs the zerolog one as the global
// logger. Close releases the log file.
func Setup(opts Options) *Logging {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var consoleOut io.Writer = console
	if opts.Format != "json" {
		consoleOut = zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen}
	}

	l := &Logging{level: level}
	writers := []io.Writer{consoleOut}
	if opts.FileEnabled && opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err == nil {
			l.file = &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    maxFileSizeMB,
				MaxBackups: maxBackups,
			}
			writers = append(writers, l.file)
		}
	}

	zerolog.SetGlobalLevel(level)
	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	log.Logger = l.Logger

	slogOut := console
	if l.file != nil {
		slogOut = io.MultiWriter(console, l.file)
	}
	l.Slog = slog.New(tint.NewHandler(slogOut, &tint.Options{
		Level:      slogLevel(level),
		TimeFormat: time.Kitchen,
		NoColor:    opts.Format == "json" || l.file != nil,
	}))

	return l
}

// Component returns a child logger tagged with a component name.
func (l *Logging) Component(name string) zerolog.Logger {
	return l.Logger.With().Str("component", name).Logger()
}

// Level returns the effective level.
func (l *Logging) Level() zerolog.Level {
	return l.level
}

// Close closes the log file, if any.
func (l *Logging) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func slogLevel(level zerolog.Level) slog.Level {
	switch {
	case level <= zerolog.DebugLevel:
		return slog.LevelDebug
	case level == zerolog.InfoLevel:
		return slog.LevelInfo
	case level == zerolog.WarnLevel:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
