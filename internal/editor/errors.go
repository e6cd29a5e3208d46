package editor

import (
	"errors"

	"github.com/dshills/richedit/internal/engine/history"
	"github.com/dshills/richedit/internal/event"
)

// Sentinel errors. Except for ErrInvalidArgument they describe a command
// that was recovered locally and left the document untouched.
var (
	// ErrNoActiveObject is returned by manipulation commands when no object
	// is active.
	ErrNoActiveObject = errors.New("no active object")

	// ErrInvalidSelection is returned when an operation needs a selection
	// context that does not exist.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrShapeConstraint is returned when deleting the last row or column.
	ErrShapeConstraint = errors.New("table shape constraint")

	// ErrUnsupported is returned when the active object's kind does not
	// support the operation.
	ErrUnsupported = errors.New("operation not supported for object kind")

	// ErrInvalidArgument is returned for malformed command arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoSubscriber reports a notification nobody received.
	ErrNoSubscriber = event.ErrNoSubscriber
)

// IsNoop reports whether err describes a command that was ignored without
// changing the document.
func IsNoop(err error) bool {
	return errors.Is(err, ErrNoActiveObject) ||
		errors.Is(err, ErrInvalidSelection) ||
		errors.Is(err, ErrShapeConstraint) ||
		errors.Is(err, ErrUnsupported) ||
		errors.Is(err, history.ErrNothingToUndo) ||
		errors.Is(err, history.ErrNothingToRedo) ||
		errors.Is(err, history.ErrRestoring)
}
