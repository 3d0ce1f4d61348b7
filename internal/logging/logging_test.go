package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Levels(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		verbose bool
		want    zerolog.Level
	}{
		{"default", "", false, zerolog.InfoLevel},
		{"warn", "warn", false, zerolog.WarnLevel},
		{"upper case", "DEBUG", false, zerolog.DebugLevel},
		{"invalid falls back", "loud", false, zerolog.InfoLevel},
		{"verbose wins", "error", true, zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Setup(Options{Level: tt.level, Verbose: tt.verbose, Console: &bytes.Buffer{}})
			defer l.Close()
			assert.Equal(t, tt.want, l.Level())
		})
	}
}

func TestSetup_JSONConsole(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(Options{Level: "info", Format: "json", Console: &buf})
	defer l.Close()

	cl := l.Component("monitor")
	cl.Info().Str("path", "/tmp/a.pdf").Msg("file classified")

	out := buf.String()
	assert.Contains(t, out, `"component":"monitor"`)
	assert.Contains(t, out, `"message":"file classified"`)
}

func TestSetup_WritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "autosort.log")
	l := Setup(Options{Level: "info", Format: "json", File: file, FileEnabled: true, Console: &bytes.Buffer{}})

	l.Logger.Info().Msg("hello file")
	l.Slog.Info("hello slog")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello file"))
	assert.True(t, strings.Contains(string(data), "hello slog"))
}

func TestSetup_FileDisabled(t *testing.T) {
	file := filepath.Join(t.TempDir(), "autosort.log")
	l := Setup(Options{File: file, FileEnabled: false, Console: &bytes.Buffer{}})
	l.Logger.Info().Msg("console only")
	require.NoError(t, l.Close())

	_, err := os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, slogLevel(zerolog.TraceLevel))
	assert.Equal(t, slog.LevelInfo, slogLevel(zerolog.InfoLevel))
	assert.Equal(t, slog.LevelWarn, slogLevel(zerolog.WarnLevel))
	assert.Equal(t, slog.LevelError, slogLevel(zerolog.FatalLevel))
}
