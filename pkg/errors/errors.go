package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNoResource      = errors.New("no playback resource available")
	ErrNoSource        = errors.New("no source assigned")
	ErrPlaybackBlocked = errors.New("playback blocked until user interaction")
	ErrInvalidFormat   = errors.New("unsupported audio format")
	ErrFadeSuperseded  = errors.New("fade superseded by a later fade")
)

// ResourceError wraps errors raised by a playback resource
type ResourceError struct {
	Op     string // Operation that failed
	Source string // Source path if applicable
	Err    error  // Underlying error
}

func (e *ResourceError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Op, e.Source, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(op, source string, err error) *ResourceError {
	return &ResourceError{Op: op, Source: source, Err: err}
}
