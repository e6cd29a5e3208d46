package document

import (
	"github.com/dshills/richedit/internal/dispatcher/execctx"
	"github.com/dshills/richedit/internal/dispatcher/handler"
	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/editor"
	"github.com/dshills/richedit/internal/object"
)

// Command names for host interaction reports.
const (
	CommandSetSelection = "setSelection"
	CommandSetViewport  = "setViewport"
	CommandReportBounds = "reportBounds"
	CommandPointerDown  = "pointerDown"
	CommandPointerMove  = "pointerMove"
	CommandPointerUp    = "pointerUp"
	CommandKeyDown      = "keyDown"
)

// InteractionHandler handles selection, layout, pointer and keyboard
// reports from the host.
type InteractionHandler struct{}

// NewInteractionHandler creates a new interaction handler.
func NewInteractionHandler() *InteractionHandler {
	return &InteractionHandler{}
}

// Group returns the handler group name.
func (h *InteractionHandler) Group() string {
	return "interaction"
}

// Commands lists the commands of the group.
func (h *InteractionHandler) Commands() []string {
	return []string{
		CommandSetSelection, CommandSetViewport, CommandReportBounds,
		CommandPointerDown, CommandPointerMove, CommandPointerUp, CommandKeyDown,
	}
}

// CanHandle returns true if this handler can process the command.
func (h *InteractionHandler) CanHandle(name string) bool {
	switch name {
	case CommandSetSelection, CommandSetViewport, CommandReportBounds,
		CommandPointerDown, CommandPointerMove, CommandPointerUp, CommandKeyDown:
		return true
	}
	return false
}

// HandleCommand processes an interaction command.
func (h *InteractionHandler) HandleCommand(cmd handler.Command, ctx *execctx.ExecutionContext) handler.Result {
	switch cmd.Name {
	case CommandSetSelection:
		return run(cmd, ctx, h.setSelection)
	case CommandSetViewport:
		return run(cmd, ctx, h.setViewport)
	case CommandReportBounds:
		return run(cmd, ctx, h.reportBounds)
	case CommandPointerDown:
		return run(cmd, ctx, pointer((*editor.Editor).PointerDown))
	case CommandPointerMove:
		return run(cmd, ctx, pointer((*editor.Editor).PointerMove))
	case CommandPointerUp:
		return run(cmd, ctx, pointer((*editor.Editor).PointerUp))
	case CommandKeyDown:
		return run(cmd, ctx, h.keyDown)
	default:
		return handler.Errorf("unknown interaction command: %s", cmd.Name)
	}
}

// setSelection takes {"anchor": pos, "focus": pos}; a missing focus
// collapses the selection onto the anchor.
func (h *InteractionHandler) setSelection(cmd handler.Command, ed *editor.Editor) handler.Result {
	anchor, err := positionArg(ed.Root(), cmd.Arg("anchor"))
	if err != nil {
		return handler.Error(err)
	}
	focus := anchor
	if f := cmd.Arg("focus"); f.Exists() {
		if focus, err = positionArg(ed.Root(), f); err != nil {
			return handler.Error(err)
		}
	}
	return handler.FromError(ed.SetSelection(dom.Range{Start: anchor, End: focus}))
}

func (h *InteractionHandler) setViewport(cmd handler.Command, ed *editor.Editor) handler.Result {
	a := cmd.Args
	ed.SetViewport(editor.Viewport{
		ScrollX: a.Get("scrollX").Float(),
		ScrollY: a.Get("scrollY").Float(),
		Width:   a.Get("width").Float(),
		Height:  a.Get("height").Float(),
	})
	return handler.Success()
}

func (h *InteractionHandler) reportBounds(cmd handler.Command, ed *editor.Editor) handler.Result {
	id, err := requireStr(cmd.Args, "id")
	if err != nil {
		return handler.Error(err)
	}
	x, y, w, ht := rectArg(cmd.Args)
	ed.ReportBounds(id, object.Rect{X: x, Y: y, Width: w, Height: ht})
	return handler.Success()
}

// pointer decodes {"target": path, "x", "y", "outside"} for a pointer
// method. The target may be omitted when the event is outside the editor.
func pointer(op func(*editor.Editor, editor.PointerEvent) editor.PointerResult) editorFunc {
	return func(cmd handler.Command, ed *editor.Editor) handler.Result {
		ev := editor.PointerEvent{
			X:       cmd.Arg("x").Float(),
			Y:       cmd.Arg("y").Float(),
			Outside: cmd.Arg("outside").Bool(),
		}
		if t := cmd.Arg("target"); t.Exists() && !ev.Outside {
			n, err := nodeArg(ed.Root(), t)
			if err != nil {
				return handler.Error(err)
			}
			ev.Target = n
		}
		return handler.SuccessWithData(op(ed, ev))
	}
}

func (h *InteractionHandler) keyDown(cmd handler.Command, ed *editor.Editor) handler.Result {
	key, err := requireStr(cmd.Args, "key")
	if err != nil {
		return handler.Error(err)
	}
	res := ed.KeyDown(editor.KeyEvent{
		Key:   key,
		Shift: cmd.Arg("shift").Bool(),
		Ctrl:  cmd.Arg("ctrl").Bool(),
		Alt:   cmd.Arg("alt").Bool(),
		Meta:  cmd.Arg("meta").Bool(),
	})
	return handler.SuccessWithData(res)
}
