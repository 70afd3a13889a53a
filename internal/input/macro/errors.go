package macro

import (
	"errors"
	"fmt"
)

// List and session errors.
var (
	// ErrLineNotFound indicates an operation addressed a line that is not in the list.
	ErrLineNotFound = errors.New("line not found")

	// ErrOffsetOutOfRange indicates a move would leave the valid position range.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrUnknownKind indicates an action kind outside the closed variant set.
	ErrUnknownKind = errors.New("unknown action kind")

	// ErrKindMismatch indicates an edit that does not apply to the line's kind.
	ErrKindMismatch = errors.New("action kind mismatch")

	// ErrCaptureFailed indicates the key source failed to start or stop.
	// The session is aborted and any captured events are discarded.
	ErrCaptureFailed = errors.New("capture failed")
)

// CaptureError describes a failed start or stop of the key source.
// It matches ErrCaptureFailed with errors.Is.
type CaptureError struct {
	Op        string // "start" or "stop"
	SessionID string
	Err       error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture %s failed (session %s): %v", e.Op, e.SessionID, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCaptureFailed.
func (e *CaptureError) Is(target error) bool {
	return target == ErrCaptureFailed
}
