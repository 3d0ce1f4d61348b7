package domain

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestMoveErrorUnwrap(t *testing.T) {
	err := NewMoveError("rename", "/in/a.txt", ErrSourceVanished)

	if !errors.Is(err, ErrSourceVanished) {
		t.Fatalf("errors.Is(%v, ErrSourceVanished) = false, want true", err)
	}
	if got, want := err.Error(), "move /in/a.txt: rename: source file no longer exists"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestRaceErrorMessage(t *testing.T) {
	if got := NewRaceError("/out/a.txt", nil).Error(); got != "destination /out/a.txt was taken concurrently" {
		t.Fatalf("Error() = %q", got)
	}

	wrapped := NewRaceError("/out/a.txt", os.ErrExist)
	if !errors.Is(wrapped, os.ErrExist) {
		t.Fatal("RaceError should unwrap to os.ErrExist")
	}
}

func TestIsFileFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"transient", ErrTransientArtifact, true},
		{"unresolved wrapped", fmt.Errorf("classify: %w", ErrClassificationUnresolved), true},
		{"destination", NewDestinationCreateError("/out", os.ErrPermission), true},
		{"move", NewMoveError("copy", "/in/a", os.ErrClosed), true},
		{"race", NewRaceError("/out/a", nil), true},
		{"invalid source", ErrInvalidSourceFolder, false},
		{"cancellation timeout", ErrCancellationTimeout, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFileFailure(tt.err); got != tt.want {
				t.Errorf("IsFileFailure(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidSourceFolder, ErrCodeInvalidSourceFolder},
		{ErrClassificationUnresolved, ErrCodeUnresolved},
		{ErrCancellationTimeout, ErrCodeCancellationTimeout},
		{NewRaceError("/out/a", nil), ErrCodeRace},
		{NewDestinationCreateError("/out", nil), ErrCodeDestinationCreate},
		{NewMoveError("rename", "/in/a", nil), ErrCodeMoveFailed},
		{errors.New("boom"), ErrCodeInternalError},
	}

	for _, tt := range tests {
		if got := ErrorCode(tt.err); got != tt.want {
			t.Errorf("ErrorCode(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
