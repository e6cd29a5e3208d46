package document

import (
	"github.com/dshills/richedit/internal/dispatcher/execctx"
	"github.com/dshills/richedit/internal/dispatcher/handler"
	"github.com/dshills/richedit/internal/editor"
)

// Command names for insertion.
const (
	CommandInsertTable   = "insertTable"
	CommandInsertTextBox = "insertTextBox"
	CommandInsertImage   = "insertImage"
	CommandPaste         = "paste"
)

// InsertHandler handles object insertion and paste.
type InsertHandler struct{}

// NewInsertHandler creates a new insert handler.
func NewInsertHandler() *InsertHandler {
	return &InsertHandler{}
}

// Group returns the handler group name.
func (h *InsertHandler) Group() string {
	return "insert"
}

// Commands lists the commands of the group.
func (h *InsertHandler) Commands() []string {
	return []string{CommandInsertTable, CommandInsertTextBox, CommandInsertImage, CommandPaste}
}

// CanHandle returns true if this handler can process the command.
func (h *InsertHandler) CanHandle(name string) bool {
	switch name {
	case CommandInsertTable, CommandInsertTextBox, CommandInsertImage, CommandPaste:
		return true
	}
	return false
}

// HandleCommand processes an insert command.
func (h *InsertHandler) HandleCommand(cmd handler.Command, ctx *execctx.ExecutionContext) handler.Result {
	switch cmd.Name {
	case CommandInsertTable:
		return run(cmd, ctx, h.insertTable)
	case CommandInsertTextBox:
		return run(cmd, ctx, func(_ handler.Command, ed *editor.Editor) handler.Result {
			return handler.FromError(ed.InsertTextBox())
		})
	case CommandInsertImage:
		return run(cmd, ctx, h.insertImage)
	case CommandPaste:
		return run(cmd, ctx, h.paste)
	default:
		return handler.Errorf("unknown insert command: %s", cmd.Name)
	}
}

// insertTable decodes a table spec. Out-of-range values are clamped by the
// editor rather than rejected.
func (h *InsertHandler) insertTable(cmd handler.Command, ed *editor.Editor) handler.Result {
	a := cmd.Args
	width, err := str(a, "width")
	if err != nil {
		return handler.Error(err)
	}
	spec := editor.TableSpec{
		Rows:        int(a.Get("rows").Int()),
		Cols:        int(a.Get("cols").Int()),
		HasHeader:   a.Get("hasHeader").Bool(),
		BorderWidth: int(a.Get("borderWidth").Int()),
		Width:       width,
		Floating:    a.Get("floating").Bool(),
	}
	return handler.FromError(ed.InsertTable(spec))
}

// insertImage accepts the picked file as "dataUrl", or any "src".
func (h *InsertHandler) insertImage(cmd handler.Command, ed *editor.Editor) handler.Result {
	a := cmd.Args
	src, err := str(a, "dataUrl")
	if err != nil {
		return handler.Error(err)
	}
	if src == "" {
		if src, err = str(a, "src"); err != nil {
			return handler.Error(err)
		}
	}
	alt, err := str(a, "alt")
	if err != nil {
		return handler.Error(err)
	}
	return handler.FromError(ed.InsertImage(src, alt, int(a.Get("width").Int()), int(a.Get("height").Int())))
}

func (h *InsertHandler) paste(cmd handler.Command, ed *editor.Editor) handler.Result {
	content, err := requireStr(cmd.Args, "html")
	if err != nil {
		return handler.Error(err)
	}
	return handler.FromError(ed.Paste(content))
}
