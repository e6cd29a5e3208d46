package bridge

import (
	"errors"

	"github.com/dshills/richedit/internal/dispatcher"
	"github.com/dshills/richedit/internal/dispatcher/handlers/document"
)

// Bridge errors.
var (
	// ErrMalformedRequest indicates a message that is not a command object.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrUnknownCommand indicates a command no handler is registered for.
	ErrUnknownCommand = dispatcher.ErrNoHandler

	// ErrInvalidArgs indicates command arguments that do not decode.
	ErrInvalidArgs = document.ErrInvalidArgs

	// ErrClosed indicates the session or transport has been closed.
	ErrClosed = errors.New("bridge closed")
)
