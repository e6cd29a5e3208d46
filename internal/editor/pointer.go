package editor

import (
	"math"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/object"
)

// PointerMode is the state of the pointer state machine.
type PointerMode uint8

const (
	PointerIdle PointerMode = iota
	PointerDragging
	PointerResizing
)

// String returns the mode name.
func (m PointerMode) String() string {
	switch m {
	case PointerDragging:
		return "dragging"
	case PointerResizing:
		return "resizing"
	default:
		return "idle"
	}
}

// PointerEvent is a mouse event reported by the host. Target is the node
// under the pointer; Outside marks events outside the editor area.
type PointerEvent struct {
	Target  *html.Node
	X, Y    float64
	Outside bool
}

// PointerResult tells the host how the event was consumed.
type PointerResult struct {
	// Captured is set when a handle took the event; the host must not let
	// it reach the editable flow.
	Captured bool        `json:"captured"`
	Mode     PointerMode `json:"-"`
	State    string      `json:"state"`
}

// pointerState tracks one drag or resize gesture.
type pointerState struct {
	mode    PointerMode
	target  object.Object
	originX float64
	originY float64
	start   object.Rect
	moved   bool
}

func (p *pointerState) begin(mode PointerMode, o object.Object, x, y float64, start object.Rect) {
	*p = pointerState{mode: mode, target: o, originX: x, originY: y, start: start}
}

func (p *pointerState) delta(x, y float64) (dx, dy float64) {
	return x - p.originX, y - p.originY
}

func (p *pointerState) end() {
	*p = pointerState{}
}

func (e *Editor) result(captured bool) PointerResult {
	return PointerResult{Captured: captured, Mode: e.pointer.mode, State: e.pointer.mode.String()}
}

// PointerMode returns the pointer state.
func (e *Editor) PointerMode() PointerMode {
	return e.pointer.mode
}

// cancelGesture ends an in-flight drag or resize. Changes it already made
// are committed.
func (e *Editor) cancelGesture() {
	if e.pointer.mode == PointerIdle {
		return
	}
	moved := e.pointer.moved
	label := "drag"
	if e.pointer.mode == PointerResizing {
		label = "resize"
	}
	e.pointer.end()
	if moved {
		e.commitActive(label)
	}
}

// PointerDown handles a mousedown. A press on a handle of the active object
// starts a gesture; a press inside an object activates it; a press
// elsewhere releases the active object.
func (e *Editor) PointerDown(ev PointerEvent) PointerResult {
	e.cancelGesture()

	if ev.Outside {
		e.deactivate()
		return e.result(false)
	}

	active := e.registry.Active()
	if kind, _, ok := object.HandleAt(ev.Target, e.root); ok && active != nil {
		start := active.Bounds(e)
		mode := PointerDragging
		if kind == object.HandleResize {
			mode = PointerResizing
		}
		e.pointer.begin(mode, active, ev.X, ev.Y, start)
		return e.result(true)
	}

	if o, ok := object.Enclosing(ev.Target, e.root); ok {
		e.activate(o)
		return e.result(false)
	}
	e.deactivate()
	return e.result(false)
}

// PointerMove advances an in-flight gesture.
func (e *Editor) PointerMove(ev PointerEvent) PointerResult {
	p := &e.pointer
	if p.mode == PointerIdle {
		return e.result(false)
	}
	if !e.registry.IsActive(p.target) {
		p.end()
		return e.result(false)
	}
	dx, dy := p.delta(ev.X, ev.Y)

	switch p.mode {
	case PointerResizing:
		w := math.Max(e.opts.MinWidth, math.Round(p.start.Width+dx))
		resize(p.target, w)
		p.moved = true
	case PointerDragging:
		if p.target.IsFloating() {
			p.target.ApplyFloating(p.start.X+dx, p.start.Y+dy)
			p.moved = true
			break
		}
		if math.Abs(dy) > e.opts.ReorderThreshold {
			if e.reorder(p.target, dy > 0) {
				p.moved = true
			}
			p.originY = ev.Y
		}
	}
	return e.result(true)
}

// PointerUp ends a gesture and commits it, then moves the caret out of any
// non-editable content it was left in.
func (e *Editor) PointerUp(ev PointerEvent) PointerResult {
	captured := false
	if mode := e.pointer.mode; mode != PointerIdle {
		label := "drag"
		if mode == PointerResizing {
			label = "resize"
		}
		e.pointer.end()
		e.commitActive(label)
		captured = true
	}
	e.escapeCaret()
	return e.result(captured)
}

// resize sets the object width. Height follows the content.
func resize(o object.Object, width float64) {
	w := object.FormatPx(width)
	dom.SetStyle(o.Node(), "width", w)
	if img, ok := o.(*object.Image); ok {
		if n := img.Img(); n != nil {
			dom.SetStyle(n, "width", w, "height", "auto")
			dom.RemoveAttr(n, "width", "height")
		}
	}
}

// unit returns the first and last node of the top-level unit holding n:
// a block object with its trailer, or a plain block.
func (e *Editor) unit(n *html.Node) (first, last *html.Node) {
	if n == nil {
		return nil, nil
	}
	if k, ok := object.KindOf(n); ok && k.IsBlock() {
		if t := nextElement(n); isTrailer(t) {
			return n, t
		}
		return n, n
	}
	if isTrailer(n) {
		if p := prevElement(n); p != nil {
			if k, ok := object.KindOf(p); ok && k.IsBlock() {
				return p, n
			}
		}
	}
	return n, n
}

// reorder swaps the unit holding o with the neighbouring unit below (down)
// or above it. It reports whether anything moved.
func (e *Editor) reorder(o object.Object, down bool) bool {
	top := dom.TopLevel(o.Node(), e.root)
	first, last := e.unit(top)
	if first == nil {
		return false
	}
	members := []*html.Node{}
	for n := first; ; n = n.NextSibling {
		members = append(members, n)
		if n == last {
			break
		}
	}

	if down {
		_, nlast := e.unit(nextElement(last))
		if nlast == nil {
			return false
		}
		ref := nlast.NextSibling
		for _, m := range members {
			dom.Detach(m)
			e.root.InsertBefore(m, ref)
		}
		return true
	}

	pfirst, _ := e.unit(prevElement(first))
	if pfirst == nil {
		return false
	}
	for _, m := range members {
		dom.InsertBefore(pfirst, m)
	}
	return true
}
