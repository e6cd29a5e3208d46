// Package handler provides the handler interface and types for command dispatch.
package handler

import (
	"github.com/tidwall/gjson"

	"github.com/dshills/richedit/internal/dispatcher/execctx"
)

// Command is a named host command with its JSON arguments.
type Command struct {
	// Name is the wire name of the command, e.g. "insertTable".
	Name string

	// Args holds the decoded "args" object. It may be empty.
	Args gjson.Result
}

// NewCommand creates a command from a name and a JSON argument object.
func NewCommand(name, args string) Command {
	return Command{Name: name, Args: gjson.Parse(args)}
}

// Arg returns the argument at path (gjson syntax).
func (c Command) Arg(path string) gjson.Result {
	return c.Args.Get(path)
}

// Handler processes a specific command or set of commands.
type Handler interface {
	// Handle executes the command and returns a result.
	Handle(cmd Command, ctx *execctx.ExecutionContext) Result

	// CanHandle returns true if this handler can process the command.
	CanHandle(name string) bool

	// Priority returns the handler priority (higher = checked first).
	Priority() int
}

// HandlerFunc is a function adapter for the Handler interface.
type HandlerFunc struct {
	fn   func(cmd Command, ctx *execctx.ExecutionContext) Result
	prio int
}

// NewHandlerFunc creates a HandlerFunc from a function.
func NewHandlerFunc(fn func(cmd Command, ctx *execctx.ExecutionContext) Result) *HandlerFunc {
	return &HandlerFunc{fn: fn}
}

// NewHandlerFuncWithPriority creates a HandlerFunc with a specified priority.
func NewHandlerFuncWithPriority(fn func(cmd Command, ctx *execctx.ExecutionContext) Result, priority int) *HandlerFunc {
	return &HandlerFunc{fn: fn, prio: priority}
}

// Handle implements Handler.Handle.
func (f *HandlerFunc) Handle(cmd Command, ctx *execctx.ExecutionContext) Result {
	if f.fn == nil {
		return Errorf("handler function is nil")
	}
	return f.fn(cmd, ctx)
}

// CanHandle implements Handler.CanHandle.
// HandlerFunc always returns true; the caller routes by name.
func (f *HandlerFunc) CanHandle(name string) bool {
	return true
}

// Priority implements Handler.Priority.
func (f *HandlerFunc) Priority() int {
	return f.prio
}

// GroupHandler handles a related set of commands, such as every table
// command.
type GroupHandler interface {
	// HandleCommand handles a command of this group.
	HandleCommand(cmd Command, ctx *execctx.ExecutionContext) Result

	// CanHandle returns true if this group contains the command.
	CanHandle(name string) bool

	// Group returns the group name used in logs and metrics.
	Group() string

	// Commands lists the command names of the group.
	Commands() []string
}

// groupAdapter adapts a GroupHandler to the Handler interface.
type groupAdapter struct {
	h GroupHandler
}

// NewGroupAdapter creates a Handler from a GroupHandler.
func NewGroupAdapter(h GroupHandler) Handler {
	return &groupAdapter{h: h}
}

func (a *groupAdapter) Handle(cmd Command, ctx *execctx.ExecutionContext) Result {
	return a.h.HandleCommand(cmd, ctx)
}

func (a *groupAdapter) CanHandle(name string) bool {
	return a.h.CanHandle(name)
}

func (a *groupAdapter) Priority() int {
	return 0
}

// BaseGroupHandler is a map-backed GroupHandler.
type BaseGroupHandler struct {
	group    string
	names    []string
	commands map[string]func(cmd Command, ctx *execctx.ExecutionContext) Result
}

// NewBaseGroupHandler creates a new BaseGroupHandler.
func NewBaseGroupHandler(group string) *BaseGroupHandler {
	return &BaseGroupHandler{
		group:    group,
		commands: make(map[string]func(cmd Command, ctx *execctx.ExecutionContext) Result),
	}
}

// Register registers a handler function for a command name.
func (h *BaseGroupHandler) Register(name string, fn func(cmd Command, ctx *execctx.ExecutionContext) Result) {
	if _, ok := h.commands[name]; !ok {
		h.names = append(h.names, name)
	}
	h.commands[name] = fn
}

// Group implements GroupHandler.Group.
func (h *BaseGroupHandler) Group() string {
	return h.group
}

// Commands implements GroupHandler.Commands.
func (h *BaseGroupHandler) Commands() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// CanHandle implements GroupHandler.CanHandle.
func (h *BaseGroupHandler) CanHandle(name string) bool {
	_, ok := h.commands[name]
	return ok
}

// HandleCommand implements GroupHandler.HandleCommand.
func (h *BaseGroupHandler) HandleCommand(cmd Command, ctx *execctx.ExecutionContext) Result {
	fn, ok := h.commands[cmd.Name]
	if !ok {
		return Errorf("unknown command in group %s: %s", h.group, cmd.Name)
	}
	return fn(cmd, ctx)
}
