// Package editor implements the document-editing engine: the Editor
// controller owns the document tree, the active-object slot, the undo
// history and the pointer state machine, and publishes every observable
// change on the event bus.
//
// All mutating operations follow the same commit sequence: apply the tree
// change, normalize the document, take a history snapshot of the clean
// content and publish editor.content.changed exactly once.
//
// An Editor is not safe for concurrent use. Callers serialize access (the
// host bridge holds one mutex around every command).
package editor

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/engine/history"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/event/events"
	"github.com/dshills/richedit/internal/event/topic"
	"github.com/dshills/richedit/internal/object"
	"github.com/dshills/richedit/internal/theme"
)

// Defaults for Options.
const (
	DefaultReorderThreshold = 30.0
	DefaultMinWidth         = 50.0
	DefaultShadowIntensity  = 5
)

// Options configures an Editor.
type Options struct {
	// HistoryLimit bounds the undo stack. Zero means history.DefaultMaxEntries.
	HistoryLimit int

	// ReorderThreshold is the vertical drag distance, in pixels, that swaps
	// a flow object with its neighbour.
	ReorderThreshold float64

	// MinWidth is the smallest width a resize can produce.
	MinWidth float64

	// ShadowIntensity is used when SetShadow gets no intensity.
	ShadowIntensity int

	// Bus receives editor events. A private bus is created when nil.
	Bus *event.Bus

	// Probe supplies the theme palette. A light probe is created when nil.
	Probe *theme.Probe

	Logger zerolog.Logger
}

func (o *Options) setDefaults() {
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = history.DefaultMaxEntries
	}
	if o.ReorderThreshold <= 0 {
		o.ReorderThreshold = DefaultReorderThreshold
	}
	if o.MinWidth <= 0 {
		o.MinWidth = DefaultMinWidth
	}
	if o.ShadowIntensity <= 0 {
		o.ShadowIntensity = DefaultShadowIntensity
	}
	if o.Bus == nil {
		o.Bus = event.NewBus()
	}
	if o.Probe == nil {
		o.Probe = theme.NewProbe(theme.Light, o.Bus)
	}
}

// Viewport is the visible region of the document as reported by the host.
type Viewport struct {
	ScrollX float64 `json:"scrollX"`
	ScrollY float64 `json:"scrollY"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Editor is the editing controller for one document.
type Editor struct {
	root     *html.Node
	registry *object.Registry
	history  *history.History
	probe    *theme.Probe
	bus      *event.Bus
	log      zerolog.Logger
	opts     Options

	selection    dom.Range
	hasSelection bool
	selectOnly   bool

	viewport Viewport
	bounds   map[string]object.Rect

	pointer pointerState

	stopTheme func()
}

// New creates an editor whose document holds content. Malformed or empty
// content is normalized; the normalized state is the history baseline.
func New(content string, opts Options) (*Editor, error) {
	opts.setDefaults()

	root := dom.NewElement("div",
		"class", "editor",
		"contenteditable", "true",
		"style", "position: relative;",
	)
	e := &Editor{
		root:     root,
		registry: object.NewRegistry(root),
		history:  history.New(opts.HistoryLimit),
		probe:    opts.Probe,
		bus:      opts.Bus,
		log:      opts.Logger.With().Str("component", "editor").Logger(),
		opts:     opts,
		viewport: Viewport{Width: 800, Height: 600},
		bounds:   make(map[string]object.Rect),
	}
	if err := dom.SetInnerHTML(root, content); err != nil {
		return nil, err
	}
	e.normalize()
	e.history.Reset(e.cleanHTML())
	e.stopTheme = e.probe.Subscribe(e.recolor)
	return e, nil
}

// Close detaches the editor from its theme probe.
func (e *Editor) Close() {
	if e.stopTheme != nil {
		e.stopTheme()
		e.stopTheme = nil
	}
}

// Root returns the document root element. Callers must not mutate it.
func (e *Editor) Root() *html.Node {
	return e.root
}

// Bus returns the bus editor events are published on.
func (e *Editor) Bus() *event.Bus {
	return e.bus
}

// Probe returns the theme probe.
func (e *Editor) Probe() *theme.Probe {
	return e.probe
}

// History returns the undo history.
func (e *Editor) History() *history.History {
	return e.history
}

// Registry returns the object registry.
func (e *Editor) Registry() *object.Registry {
	return e.registry
}

// cleanHTML serializes the document without handles or activation state.
func (e *Editor) cleanHTML() string {
	c := dom.Clone(e.root)
	object.StripDecorations(c)
	return dom.InnerHTML(c)
}

// GetHTML returns the document content without editing decorations.
func (e *Editor) GetHTML() string {
	return e.cleanHTML()
}

// RenderHTML returns the live document content, decorations included,
// for the host view.
func (e *Editor) RenderHTML() string {
	return dom.InnerHTML(e.root)
}

// SetHTML replaces the document content and resets history. Content that
// lacks a block root is wrapped in a paragraph; empty content becomes an
// empty paragraph.
func (e *Editor) SetHTML(content string) error {
	nodes, err := dom.ParseFragment(content)
	if err != nil {
		return err
	}
	e.cancelGesture()
	prev := e.registry.Active()
	e.registry.Forget()

	dom.RemoveChildren(e.root)
	for _, n := range nodes {
		e.root.AppendChild(n)
	}
	e.hasSelection = false
	e.bounds = make(map[string]object.Rect)
	e.normalize()
	e.history.Reset(e.cleanHTML())

	if prev != nil {
		e.emitDeselected(prev)
	}
	emit(e, events.TopicContentChanged, events.ContentChanged{Label: "setHTML"})
	return nil
}

// commit normalizes the document, records a history entry and publishes
// editor.content.changed.
func (e *Editor) commit(label string) {
	if lost := e.validateActive(); lost != nil {
		e.emitDeselected(lost)
	}
	e.normalize()
	e.history.Snapshot(e.cleanHTML(), label)
	emit(e, events.TopicContentChanged, events.ContentChanged{Label: label})
}

// commitActive is commit preceded by editor.object.properties for the
// active object.
func (e *Editor) commitActive(label string) {
	if lost := e.validateActive(); lost != nil {
		e.emitDeselected(lost)
	}
	e.normalize()
	if o := e.registry.Active(); o != nil {
		emit(e, events.TopicObjectPropertiesChanged, events.ObjectPropertiesChanged{Props: o.Props(e)})
	}
	e.history.Snapshot(e.cleanHTML(), label)
	emit(e, events.TopicContentChanged, events.ContentChanged{Label: label})
}

// Undo restores the previous snapshot.
func (e *Editor) Undo() error {
	return e.restore(e.history.Undo, "undo")
}

// Redo re-applies the last undone snapshot.
func (e *Editor) Redo() error {
	return e.restore(e.history.Redo, "redo")
}

func (e *Editor) restore(step func(history.Applier) error, label string) error {
	prev := e.registry.Active()
	err := step(func(content string) error {
		e.cancelGesture()
		e.registry.Forget()
		if err := dom.SetInnerHTML(e.root, content); err != nil {
			return err
		}
		e.hasSelection = false
		return nil
	})
	if err != nil {
		return err
	}
	if prev != nil {
		e.emitDeselected(prev)
	}
	emit(e, events.TopicContentChanged, events.ContentChanged{Label: label})
	return nil
}

// emit publishes one editor event. A missing subscriber is logged and
// otherwise ignored; local state stays consistent either way.
func emit[T any](e *Editor, t topic.Topic, payload T) {
	_, err := e.bus.Publish(context.Background(), event.NewEvent(t, payload, "editor"))
	switch {
	case err == nil:
	case errors.Is(err, event.ErrNoSubscriber):
		e.log.Warn().Str("topic", t.String()).Msg("notification not delivered: no subscriber")
	default:
		e.log.Error().Err(err).Str("topic", t.String()).Msg("notification handler failed")
	}
}

func (e *Editor) emitSelected(o object.Object) {
	emit(e, events.TopicObjectSelected, events.ObjectSelected{Kind: o.Kind(), Props: o.Props(e)})
}

func (e *Editor) emitDeselected(o object.Object) {
	emit(e, events.TopicObjectDeselected, events.ObjectDeselected{ID: o.ID(), Kind: o.Kind()})
}

// activate makes o the active object and publishes the selection.
func (e *Editor) activate(o object.Object) {
	if e.registry.IsActive(o) {
		return
	}
	if prev := e.registry.Activate(o); prev != nil {
		e.emitDeselected(prev)
	}
	e.emitSelected(o)
}

// deactivate releases the active object, if any, and publishes it.
func (e *Editor) deactivate() bool {
	prev := e.registry.Deactivate()
	if prev == nil {
		return false
	}
	e.emitDeselected(prev)
	return true
}

// Active returns the properties of the active object.
func (e *Editor) Active() (object.Props, bool) {
	o := e.registry.Active()
	if o == nil {
		return object.Props{}, false
	}
	return o.Props(e), true
}

// Select activates the object with the given id.
func (e *Editor) Select(id string) error {
	o, ok := e.registry.Find(id)
	if !ok {
		return ErrNoActiveObject
	}
	e.cancelGesture()
	e.activate(o)
	return nil
}

// Deselect releases the active object.
func (e *Editor) Deselect() error {
	e.cancelGesture()
	if !e.deactivate() {
		return ErrNoActiveObject
	}
	return nil
}

// SetViewport records the visible region used to place floating objects.
func (e *Editor) SetViewport(v Viewport) {
	if v.Width <= 0 || v.Height <= 0 {
		return
	}
	e.viewport = v
}

// Viewport returns the last reported viewport.
func (e *Editor) Viewport() Viewport {
	return e.viewport
}

// ReportBounds records the rendered box of an object.
func (e *Editor) ReportBounds(id string, r object.Rect) {
	e.bounds[id] = r
}

// BoundsOf implements object.Layout with host-reported boxes.
func (e *Editor) BoundsOf(n *html.Node) (object.Rect, bool) {
	id := dom.Attr(n, object.AttrID)
	if id == "" {
		return object.Rect{}, false
	}
	r, ok := e.bounds[id]
	return r, ok
}

// SetSelectionOnly toggles selection-only fills. The flag is not persisted.
func (e *Editor) SetSelectionOnly(enabled bool) {
	e.selectOnly = enabled
}

// SelectionOnly reports whether fills are restricted to the selection.
func (e *Editor) SelectionOnly() bool {
	return e.selectOnly
}

// State summarizes the editor for the host.
type State struct {
	HTML          string        `json:"html"`
	Active        *object.Props `json:"active,omitempty"`
	CanUndo       bool          `json:"canUndo"`
	CanRedo       bool          `json:"canRedo"`
	UndoCount     int           `json:"undoCount"`
	Pointer       string        `json:"pointer"`
	SelectionOnly bool          `json:"selectionOnly"`
	Scheme        string        `json:"scheme"`
	Objects       int           `json:"objects"`
}

// State returns a snapshot of the editor state.
func (e *Editor) State() State {
	s := State{
		HTML:          e.cleanHTML(),
		CanUndo:       e.history.CanUndo(),
		CanRedo:       e.history.CanRedo(),
		UndoCount:     e.history.UndoCount(),
		Pointer:       e.pointer.mode.String(),
		SelectionOnly: e.selectOnly,
		Scheme:        e.probe.Scheme().String(),
		Objects:       len(e.registry.Objects()),
	}
	if p, ok := e.Active(); ok {
		s.Active = &p
	}
	return s
}

// recolor updates table colors that still match the previous palette.
func (e *Editor) recolor(old, next theme.Palette) {
	changed := false
	for _, o := range e.registry.Objects() {
		if !o.Kind().IsBlock() {
			continue
		}
		targets := append([]*html.Node{o.Node()}, object.AllCells(o.Node())...)
		for _, n := range targets {
			st := dom.StyleOf(n)
			dom.ExpandBorder(st)
			if c := st.Get("border-color"); c != "" && theme.SameColor(c, old.Border) {
				st.Set("border-color", next.Border)
				changed = true
			}
			if v := dom.Attr(n, attrSavedBorderColor); v != "" && theme.SameColor(v, old.Border) {
				dom.SetAttr(n, attrSavedBorderColor, next.Border)
				changed = true
			}
			if object.IsHeaderCell(n) {
				if bg := st.Get("background-color"); bg != "" && theme.SameColor(bg, old.HeaderBackground) {
					st.Set("background-color", next.HeaderBackground)
					changed = true
				}
			}
			dom.SetStyleOf(n, st)
		}
	}
	if changed {
		e.log.Debug().Str("border", next.Border).Msg("recolored tables for theme change")
		e.commit("theme")
	}
}

// isTrailer reports whether n is an empty paragraph that may follow an
// object.
func isTrailer(n *html.Node) bool {
	return dom.IsElement(n, "p") && dom.IsEmptyBlock(n) && !object.IsObject(n)
}
