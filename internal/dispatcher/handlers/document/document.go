package document

import (
	"errors"

	"github.com/dshills/richedit/internal/dispatcher/execctx"
	"github.com/dshills/richedit/internal/dispatcher/handler"
	"github.com/dshills/richedit/internal/editor"
	"github.com/dshills/richedit/internal/theme"
)

// Command names for document state.
const (
	CommandGetHTML        = "getHTML"
	CommandSetHTML        = "setHTML"
	CommandRender         = "render"
	CommandUndo           = "undo"
	CommandRedo           = "redo"
	CommandGetState       = "getState"
	CommandObserveInput   = "observeInput"
	CommandSetColorScheme = "setColorScheme"
	CommandSelect         = "select"
	CommandDeselect       = "deselect"
)

// DocumentHandler handles whole-document commands: content access, history
// and the theme scheme.
type DocumentHandler struct {
	*handler.BaseGroupHandler
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler() *DocumentHandler {
	h := &DocumentHandler{BaseGroupHandler: handler.NewBaseGroupHandler("document")}
	h.register(CommandGetHTML, func(_ handler.Command, ed *editor.Editor) handler.Result {
		return handler.SuccessWithData(ed.GetHTML())
	})
	h.register(CommandRender, func(_ handler.Command, ed *editor.Editor) handler.Result {
		return handler.SuccessWithData(ed.RenderHTML())
	})
	h.register(CommandGetState, func(_ handler.Command, ed *editor.Editor) handler.Result {
		return handler.SuccessWithData(ed.State())
	})
	h.register(CommandSetHTML, setHTML)
	h.register(CommandObserveInput, observeInput)
	h.register(CommandUndo, func(_ handler.Command, ed *editor.Editor) handler.Result {
		return handler.FromError(ed.Undo())
	})
	h.register(CommandRedo, func(_ handler.Command, ed *editor.Editor) handler.Result {
		return handler.FromError(ed.Redo())
	})
	h.register(CommandSetColorScheme, setColorScheme)
	h.register(CommandSelect, selectObject)
	h.register(CommandDeselect, func(_ handler.Command, ed *editor.Editor) handler.Result {
		return handler.FromError(ed.Deselect())
	})
	return h
}

func (h *DocumentHandler) register(name string, fn editorFunc) {
	h.Register(name, func(cmd handler.Command, ctx *execctx.ExecutionContext) handler.Result {
		return run(cmd, ctx, fn)
	})
}

func setHTML(cmd handler.Command, ed *editor.Editor) handler.Result {
	content, err := str(cmd.Args, "html")
	if err != nil {
		return handler.Error(err)
	}
	return handler.FromError(ed.SetHTML(content))
}

func observeInput(cmd handler.Command, ed *editor.Editor) handler.Result {
	content, err := requireStr(cmd.Args, "html")
	if err != nil {
		return handler.Error(err)
	}
	return handler.FromError(ed.ObserveInput(content))
}

// setColorScheme switches the palette. Tables still using the old defaults
// are recolored by the editor's probe subscription.
func setColorScheme(cmd handler.Command, ed *editor.Editor) handler.Result {
	name, err := requireStr(cmd.Args, "scheme")
	if err != nil {
		return handler.Error(err)
	}
	scheme, err := theme.ParseScheme(name)
	if err != nil {
		return handler.Error(invalid("%v", err))
	}
	if !ed.Probe().SetScheme(scheme) {
		return handler.NoOpWithReason(errors.New("scheme unchanged"))
	}
	return handler.Success()
}

func selectObject(cmd handler.Command, ed *editor.Editor) handler.Result {
	id, err := requireStr(cmd.Args, "id")
	if err != nil {
		return handler.Error(err)
	}
	return handler.FromError(ed.Select(id))
}
