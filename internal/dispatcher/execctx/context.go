// Package execctx provides the execution context for command handlers.
package execctx

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/richedit/internal/editor"
)

// ExecutionContext carries what a handler needs to run one command.
type ExecutionContext struct {
	// Editor is the document the command applies to.
	Editor *editor.Editor

	// Logger is scoped to the command.
	Logger zerolog.Logger

	// Command is the name of the command being executed.
	Command string

	// RequestID is the host-supplied id of the request, if any.
	RequestID string

	// StartTime is when dispatch began.
	StartTime time.Time
}

// New creates an execution context for ed.
func New(ed *editor.Editor) *ExecutionContext {
	return &ExecutionContext{
		Editor:    ed,
		Logger:    zerolog.Nop(),
		StartTime: time.Now(),
	}
}

// WithLogger returns the context with a logger attached.
func (c *ExecutionContext) WithLogger(l zerolog.Logger) *ExecutionContext {
	c.Logger = l
	return c
}

// RequireEditor returns ErrMissingEditor when no editor is attached.
func (c *ExecutionContext) RequireEditor() error {
	if c == nil || c.Editor == nil {
		return ErrMissingEditor
	}
	return nil
}

// Elapsed returns the time since dispatch began.
func (c *ExecutionContext) Elapsed() time.Duration {
	return time.Since(c.StartTime)
}
