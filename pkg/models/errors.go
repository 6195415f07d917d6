package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core matches exactly one of these
// through errors.Is.
var (
	// ErrNotFound means a path vanished or is neither a regular file nor a directory
	ErrNotFound = errors.New("not found")
	// ErrInvalidPath means a path could not be mapped relative to its root
	ErrInvalidPath = errors.New("invalid path")
	// ErrCopyFailed means the copy primitive or a directory creation failed
	ErrCopyFailed = errors.New("copy failed")
	// ErrConfiguration means the run configuration is unusable
	ErrConfiguration = errors.New("configuration error")
)

// PathError records a failed operation on a path
type PathError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

// NewPathError builds a PathError of the given kind
func NewPathError(op, path string, kind, err error) *PathError {
	return &PathError{Op: op, Path: path, Kind: kind, Err: err}
}

func (e *PathError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
}

// Unwrap exposes both the kind and the underlying cause
func (e *PathError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap lets errors.Is(err, ErrConfiguration) match validation failures
func (e *ValidationError) Unwrap() error {
	return ErrConfiguration
}
