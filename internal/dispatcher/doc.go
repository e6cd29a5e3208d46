// Package dispatcher routes host commands to handlers and coordinates execution.
//
// The host bridge decodes each request into a handler.Command (a name plus
// JSON arguments) and hands it to Dispatch together with an ExecutionContext
// carrying the editor instance. Handlers are registered by exact command
// name; several handlers may share a name, in which case the one with the
// highest priority runs.
//
// # Handler Execution
//
// When a command is dispatched:
//
//  1. Pre-dispatch hooks run and may cancel the command
//  2. The registry resolves the handler for the command name
//  3. The handler runs, with panic recovery unless disabled
//  4. Post-dispatch hooks run and may inspect the result
//  5. Metrics are recorded when enabled
//
// A handler reports one of four outcomes: ok, no-op (the command was
// ignored without touching the document), error, or cancelled.
//
// # Usage
//
//	d := dispatcher.NewWithDefaults()
//	d.RegisterGroup(document.NewTableHandler())
//	d.RegisterHandlerFunc("ping", func(cmd handler.Command, ctx *execctx.ExecutionContext) handler.Result {
//	    return handler.SuccessWithData("pong")
//	})
//
//	result := d.Dispatch(handler.NewCommand("addRow", `{"position":1}`), execctx.New(ed))
package dispatcher
