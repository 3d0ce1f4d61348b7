// Package domain contains domain errors used throughout the application.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	ErrInvalidSourceFolder      = errors.New("source folder is not a valid directory")
	ErrTransientArtifact        = errors.New("file is a transient artifact")
	ErrClassificationUnresolved = errors.New("no destination could be determined")
	ErrSourceVanished           = errors.New("source file no longer exists")
	ErrAlreadyRunning           = errors.New("monitor is already running")
	ErrCancellationTimeout      = errors.New("monitor did not stop within the grace period")
	ErrHubNotRunning            = errors.New("event hub is not running")
	ErrSubscriberClosed         = errors.New("subscriber is closed")
	ErrRuleNotFound             = errors.New("rule not found")
)

// Error codes for client responses.
const (
	ErrCodeInvalidSourceFolder = "INVALID_SOURCE_FOLDER"
	ErrCodeUnresolved          = "CLASSIFICATION_UNRESOLVED"
	ErrCodeDestinationCreate   = "DESTINATION_CREATE_FAILED"
	ErrCodeMoveFailed          = "MOVE_FAILED"
	ErrCodeRace                = "DESTINATION_RACE"
	ErrCodeCancellationTimeout = "CANCELLATION_TIMEOUT"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DestinationCreateError reports a target folder that could not be created.
type DestinationCreateError struct {
	Path string
	Err  error
}

func (e *DestinationCreateError) Error() string {
	return fmt.Sprintf("create destination %s: %v", e.Path, e.Err)
}

func (e *DestinationCreateError) Unwrap() error {
	return e.Err
}

// NewDestinationCreateError creates a new DestinationCreateError.
func NewDestinationCreateError(path string, err error) *DestinationCreateError {
	return &DestinationCreateError{Path: path, Err: err}
}

// MoveError represents a failed relocation of a single file.
type MoveError struct {
	Op   string // Operation that failed (stat, rename, copy, remove)
	Path string // Source path
	Err  error  // Underlying error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// NewMoveError creates a new MoveError.
func NewMoveError(op, path string, err error) *MoveError {
	return &MoveError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// RaceError reports that another writer claimed a destination path first.
type RaceError struct {
	Path string
	Err  error
}

func (e *RaceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("destination %s was taken concurrently", e.Path)
	}
	return fmt.Sprintf("destination %s was taken concurrently: %v", e.Path, e.Err)
}

func (e *RaceError) Unwrap() error {
	return e.Err
}

// NewRaceError creates a new RaceError.
func NewRaceError(path string, err error) *RaceError {
	return &RaceError{Path: path, Err: err}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsFileFailure reports whether err is a per-file failure that must not stop
// the watch loop.
func IsFileFailure(err error) bool {
	if err == nil {
		return false
	}
	var (
		destErr *DestinationCreateError
		moveErr *MoveError
		raceErr *RaceError
	)
	return errors.Is(err, ErrTransientArtifact) ||
		errors.Is(err, ErrClassificationUnresolved) ||
		errors.As(err, &destErr) ||
		errors.As(err, &moveErr) ||
		errors.As(err, &raceErr)
}

// ErrorCode maps an error to the code reported to clients.
func ErrorCode(err error) string {
	var (
		destErr *DestinationCreateError
		moveErr *MoveError
		raceErr *RaceError
	)
	switch {
	case errors.Is(err, ErrInvalidSourceFolder):
		return ErrCodeInvalidSourceFolder
	case errors.Is(err, ErrClassificationUnresolved):
		return ErrCodeUnresolved
	case errors.Is(err, ErrCancellationTimeout):
		return ErrCodeCancellationTimeout
	case errors.As(err, &raceErr):
		return ErrCodeRace
	case errors.As(err, &destErr):
		return ErrCodeDestinationCreate
	case errors.As(err, &moveErr):
		return ErrCodeMoveFailed
	default:
		return ErrCodeInternalError
	}
}
