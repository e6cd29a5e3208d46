package document

import (
	"github.com/dshills/richedit/internal/dispatcher/execctx"
	"github.com/dshills/richedit/internal/dispatcher/handler"
	"github.com/dshills/richedit/internal/editor"
)

// Command names for table structure.
const (
	CommandAddRow       = "addRow"
	CommandAddColumn    = "addColumn"
	CommandDeleteRow    = "deleteRow"
	CommandDeleteColumn = "deleteColumn"
	CommandDeleteObject = "deleteObject"
)

// TableHandler handles row, column and object deletion commands.
type TableHandler struct{}

// NewTableHandler creates a new table handler.
func NewTableHandler() *TableHandler {
	return &TableHandler{}
}

// Group returns the handler group name.
func (h *TableHandler) Group() string {
	return "table"
}

// Commands lists the commands of the group.
func (h *TableHandler) Commands() []string {
	return []string{CommandAddRow, CommandAddColumn, CommandDeleteRow, CommandDeleteColumn, CommandDeleteObject}
}

// CanHandle returns true if this handler can process the command.
func (h *TableHandler) CanHandle(name string) bool {
	switch name {
	case CommandAddRow, CommandAddColumn, CommandDeleteRow, CommandDeleteColumn, CommandDeleteObject:
		return true
	}
	return false
}

// HandleCommand processes a table command.
func (h *TableHandler) HandleCommand(cmd handler.Command, ctx *execctx.ExecutionContext) handler.Result {
	switch cmd.Name {
	case CommandAddRow:
		return run(cmd, ctx, indexed("position", (*editor.Editor).AddRow))
	case CommandAddColumn:
		return run(cmd, ctx, indexed("position", (*editor.Editor).AddColumn))
	case CommandDeleteRow:
		return run(cmd, ctx, indexed("index", (*editor.Editor).DeleteRow))
	case CommandDeleteColumn:
		return run(cmd, ctx, indexed("index", (*editor.Editor).DeleteColumn))
	case CommandDeleteObject:
		return run(cmd, ctx, func(_ handler.Command, ed *editor.Editor) handler.Result {
			return handler.FromError(ed.DeleteObject())
		})
	default:
		return handler.Errorf("unknown table command: %s", cmd.Name)
	}
}

// indexed adapts an editor method taking an optional index argument.
func indexed(key string, op func(*editor.Editor, *int) error) editorFunc {
	return func(cmd handler.Command, ed *editor.Editor) handler.Result {
		idx, err := optInt(cmd.Args, key)
		if err != nil {
			return handler.Error(err)
		}
		return handler.FromError(op(ed, idx))
	}
}
