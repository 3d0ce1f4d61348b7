package instance

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLock_Exclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "autosort.lock")

	first := New(path)
	require.NoError(t, first.Acquire())
	defer first.Release()

	second := New(path)
	assert.ErrorIs(t, second.Acquire(), ErrAlreadyRunning)

	require.NoError(t, first.Release())
	require.NoError(t, second.Acquire())
	require.NoError(t, second.Release())
}

func TestLock_ReleaseUnheld(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "autosort.lock"))
	assert.NoError(t, l.Release())
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, filepath.Join("/home/u/.autosort", "autosort.lock"),
		PathFor(filepath.Join("/home/u/.autosort", "config.yaml")))
}
