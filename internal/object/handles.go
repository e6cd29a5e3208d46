package object

import (
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
)

// HandleKind identifies a handle decoration.
type HandleKind string

const (
	// HandleDrag moves (floating) or reorders (flow) the object.
	HandleDrag HandleKind = "drag"
	// HandleResize changes the object's width.
	HandleResize HandleKind = "resize"
)

// Cursor affordances of the drag handle.
const (
	cursorFlow     = "grab"
	cursorFloating = "move"
)

// handleTag returns an element name the HTML parser keeps in place as a
// child of host. A table only accepts table-section children, so its
// handles are captions; everything else gets inline spans.
func handleTag(host *html.Node) string {
	if dom.IsElement(host, "table") {
		return "caption"
	}
	return "span"
}

// newHandle builds a non-editable, non-focusable, non-selectable overlay
// to be appended to host.
func newHandle(host *html.Node, kind HandleKind, floating bool) *html.Node {
	h := dom.NewElement(handleTag(host),
		AttrHandle, string(kind),
		"class", "object-handle "+string(kind)+"-handle",
		"contenteditable", "false",
		"tabindex", "-1",
		"unselectable", "on",
		"draggable", "false",
		"aria-hidden", "true",
	)
	st := dom.ParseStyle("position: absolute; display: block; margin: 0; padding: 0; width: 14px; height: 14px; z-index: 1000; user-select: none; background: #2196f3; border: 2px solid #ffffff; border-radius: 3px;")
	switch kind {
	case HandleDrag:
		st.Set("top", "-9px")
		st.Set("left", "-9px")
	case HandleResize:
		st.Set("bottom", "-9px")
		st.Set("right", "-9px")
		st.Set("cursor", "nwse-resize")
	}
	dom.SetStyleOf(h, st)
	if kind == HandleDrag {
		setDragAffordance(h, floating)
	}
	return h
}

func setDragAffordance(h *html.Node, floating bool) {
	if floating {
		dom.SetStyle(h, "cursor", cursorFloating, "width", "18px", "height", "18px", "border-radius", "50%")
		dom.SetAttr(h, "title", "Drag to move")
		dom.AddClass(h, "is-floating")
		return
	}
	dom.SetStyle(h, "cursor", cursorFlow, "width", "14px", "height", "14px", "border-radius", "3px")
	dom.SetAttr(h, "title", "Drag to reorder")
	dom.RemoveClass(h, "is-floating")
}

// IsHandle reports whether n is a handle element.
func IsHandle(n *html.Node) bool {
	return dom.IsElement(n) && dom.HasAttr(n, AttrHandle)
}

// HandleAt returns the handle containing n, if any, below root.
func HandleAt(n, root *html.Node) (HandleKind, *html.Node, bool) {
	h := dom.Closest(n, root, IsHandle)
	if h == nil {
		return "", nil, false
	}
	return HandleKind(dom.Attr(h, AttrHandle)), h, true
}

// StripDecorations removes handles and activation state below n, leaving
// only persistent document content. n itself is modified.
func StripDecorations(n *html.Node) {
	for _, h := range dom.FindAll(n, IsHandle) {
		dom.Detach(h)
	}
	dom.Walk(n, func(x *html.Node) bool {
		if !dom.IsElement(x) {
			return true
		}
		if dom.HasAttr(x, AttrPositioned) {
			dom.RemoveAttr(x, AttrPositioned)
			if dom.GetStyle(x, "position") == "relative" {
				dom.RemoveStyle(x, "position")
			}
		}
		dom.RemoveAttr(x, AttrActive)
		return true
	})
}
