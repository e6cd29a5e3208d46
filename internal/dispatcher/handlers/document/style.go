package document

import (
	"github.com/dshills/richedit/internal/dispatcher/execctx"
	"github.com/dshills/richedit/internal/dispatcher/handler"
	"github.com/dshills/richedit/internal/editor"
)

// Command names for alignment and styling.
const (
	CommandSetAlignment          = "setAlignment"
	CommandFloat                 = "float"
	CommandSetBorderStyle        = "setBorderStyle"
	CommandSetBorderWidth        = "setBorderWidth"
	CommandSetBorderColor        = "setBorderColor"
	CommandSetTransparentBorder  = "setTransparentBorder"
	CommandSetTableBackground    = "setTableBackground"
	CommandSetHeaderBackground   = "setHeaderBackground"
	CommandSetCellBackground     = "setCellBackground"
	CommandApplyTheme            = "applyTheme"
	CommandSetShadow             = "setShadow"
	CommandSetColorSelectionOnly = "setColorSelectionOnly"
)

var styleCommands = []string{
	CommandSetAlignment,
	CommandFloat,
	CommandSetBorderStyle,
	CommandSetBorderWidth,
	CommandSetBorderColor,
	CommandSetTransparentBorder,
	CommandSetTableBackground,
	CommandSetHeaderBackground,
	CommandSetCellBackground,
	CommandApplyTheme,
	CommandSetShadow,
	CommandSetColorSelectionOnly,
}

// StyleHandler handles alignment, border, fill and shadow commands on the
// active object.
type StyleHandler struct {
	ops map[string]editorFunc
}

// NewStyleHandler creates a new style handler.
func NewStyleHandler() *StyleHandler {
	h := &StyleHandler{}
	h.ops = map[string]editorFunc{
		CommandSetAlignment:          h.setAlignment,
		CommandFloat:                 h.float,
		CommandSetBorderStyle:        h.setBorderStyle,
		CommandSetBorderWidth:        h.setBorderWidth,
		CommandSetBorderColor:        h.setBorderColor,
		CommandSetTransparentBorder:  h.setTransparentBorder,
		CommandSetTableBackground:    fill((*editor.Editor).SetTableBackground),
		CommandSetHeaderBackground:   fill((*editor.Editor).SetHeaderBackground),
		CommandSetCellBackground:     fill((*editor.Editor).SetCellBackground),
		CommandApplyTheme:            h.applyTheme,
		CommandSetShadow:             h.setShadow,
		CommandSetColorSelectionOnly: h.setSelectionOnly,
	}
	return h
}

// Group returns the handler group name.
func (h *StyleHandler) Group() string {
	return "style"
}

// Commands lists the commands of the group.
func (h *StyleHandler) Commands() []string {
	out := make([]string, len(styleCommands))
	copy(out, styleCommands)
	return out
}

// CanHandle returns true if this handler can process the command.
func (h *StyleHandler) CanHandle(name string) bool {
	_, ok := h.ops[name]
	return ok
}

// HandleCommand processes a style command.
func (h *StyleHandler) HandleCommand(cmd handler.Command, ctx *execctx.ExecutionContext) handler.Result {
	op, ok := h.ops[cmd.Name]
	if !ok {
		return handler.Errorf("unknown style command: %s", cmd.Name)
	}
	return run(cmd, ctx, op)
}

func (h *StyleHandler) setAlignment(cmd handler.Command, ed *editor.Editor) handler.Result {
	mode, err := requireStr(cmd.Args, "mode")
	if err != nil {
		return handler.Error(err)
	}
	return handler.FromError(ed.SetAlignment(mode))
}

func (h *StyleHandler) float(_ handler.Command, ed *editor.Editor) handler.Result {
	return handler.FromError(ed.Float())
}

func scopeArg(cmd handler.Command) (editor.Scope, error) {
	s, err := str(cmd.Args, "scope")
	if err != nil {
		return "", err
	}
	return editor.ParseScope(s)
}

func (h *StyleHandler) setBorderStyle(cmd handler.Command, ed *editor.Editor) handler.Result {
	style, err := requireStr(cmd.Args, "style")
	if err != nil {
		return handler.Error(err)
	}
	scope, err := scopeArg(cmd)
	if err != nil {
		return handler.Error(err)
	}
	return handler.FromError(ed.SetBorderStyle(style, scope))
}

func (h *StyleHandler) setBorderWidth(cmd handler.Command, ed *editor.Editor) handler.Result {
	width, err := optInt(cmd.Args, "width")
	if err != nil {
		return handler.Error(err)
	}
	if width == nil {
		return handler.Error(invalid("width is required"))
	}
	scope, err := scopeArg(cmd)
	if err != nil {
		return handler.Error(err)
	}
	return handler.FromError(ed.SetBorderWidth(*width, scope))
}

func (h *StyleHandler) setBorderColor(cmd handler.Command, ed *editor.Editor) handler.Result {
	color, err := requireStr(cmd.Args, "color")
	if err != nil {
		return handler.Error(err)
	}
	scope, err := scopeArg(cmd)
	if err != nil {
		return handler.Error(err)
	}
	return handler.FromError(ed.SetBorderColor(color, scope))
}

func (h *StyleHandler) setTransparentBorder(cmd handler.Command, ed *editor.Editor) handler.Result {
	enabled, err := requireBool(cmd.Args, "enabled")
	if err != nil {
		return handler.Error(err)
	}
	scope, err := scopeArg(cmd)
	if err != nil {
		return handler.Error(err)
	}
	return handler.FromError(ed.SetTransparentBorder(enabled, scope))
}

// fill adapts a single-color fill method.
func fill(op func(*editor.Editor, string) error) editorFunc {
	return func(cmd handler.Command, ed *editor.Editor) handler.Result {
		color, err := requireStr(cmd.Args, "color")
		if err != nil {
			return handler.Error(err)
		}
		return handler.FromError(op(ed, color))
	}
}

func (h *StyleHandler) applyTheme(cmd handler.Command, ed *editor.Editor) handler.Result {
	var colors [3]string
	for i, key := range []string{"tableBg", "headerBg", "cellBg"} {
		c, err := requireStr(cmd.Args, key)
		if err != nil {
			return handler.Error(err)
		}
		colors[i] = c
	}
	return handler.FromError(ed.ApplyTheme(colors[0], colors[1], colors[2]))
}

func (h *StyleHandler) setShadow(cmd handler.Command, ed *editor.Editor) handler.Result {
	enabled, err := requireBool(cmd.Args, "enabled")
	if err != nil {
		return handler.Error(err)
	}
	intensity, err := optInt(cmd.Args, "intensity")
	if err != nil {
		return handler.Error(err)
	}
	return handler.FromError(ed.SetShadow(enabled, intensity))
}

func (h *StyleHandler) setSelectionOnly(cmd handler.Command, ed *editor.Editor) handler.Result {
	enabled, err := requireBool(cmd.Args, "enabled")
	if err != nil {
		return handler.Error(err)
	}
	ed.SetSelectionOnly(enabled)
	return handler.Success()
}
