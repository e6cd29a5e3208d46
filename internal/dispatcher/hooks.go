package dispatcher

import (
	"github.com/rs/zerolog"

	"github.com/dshills/richedit/internal/dispatcher/execctx"
	"github.com/dshills/richedit/internal/dispatcher/handler"
)

// PreDispatchHook is called before a command is dispatched.
type PreDispatchHook interface {
	// PreDispatch may modify the command or context.
	// Returns false to cancel the dispatch.
	PreDispatch(cmd *handler.Command, ctx *execctx.ExecutionContext) bool
}

// PostDispatchHook is called after a command is dispatched.
type PostDispatchHook interface {
	// PostDispatch may inspect or modify the result.
	PostDispatch(cmd *handler.Command, ctx *execctx.ExecutionContext, result *handler.Result)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(cmd *handler.Command, ctx *execctx.ExecutionContext) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(cmd *handler.Command, ctx *execctx.ExecutionContext) bool {
	return f(cmd, ctx)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(cmd *handler.Command, ctx *execctx.ExecutionContext, result *handler.Result)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(cmd *handler.Command, ctx *execctx.ExecutionContext, result *handler.Result) {
	f(cmd, ctx, result)
}

// LoggingHook logs every dispatched command and its outcome.
type LoggingHook struct {
	log zerolog.Logger
}

// NewLoggingHook creates a logging hook writing to l.
func NewLoggingHook(l zerolog.Logger) *LoggingHook {
	return &LoggingHook{log: l}
}

// PreDispatch logs the command being dispatched.
func (h *LoggingHook) PreDispatch(cmd *handler.Command, ctx *execctx.ExecutionContext) bool {
	h.log.Debug().Str("command", cmd.Name).Str("request", ctx.RequestID).Msg("dispatching command")
	return true
}

// PostDispatch logs the dispatch result. Failures log at warn level.
func (h *LoggingHook) PostDispatch(cmd *handler.Command, ctx *execctx.ExecutionContext, result *handler.Result) {
	ev := h.log.Debug()
	if result.IsError() {
		ev = h.log.Warn().Err(result.Error)
	}
	ev.Str("command", cmd.Name).
		Str("status", result.Status.String()).
		Dur("elapsed", ctx.Elapsed()).
		Msg("dispatch complete")
}
