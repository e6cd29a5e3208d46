package editor

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/event/events"
	"github.com/dshills/richedit/internal/object"
	"github.com/dshills/richedit/internal/theme"
)

// Table shape limits.
const (
	MaxBorderWidth = 5
	MaxDimension   = 100
)

var tableWidths = map[string]bool{"auto": true, "50%": true, "75%": true, "100%": true}

// TableSpec describes a table to insert.
type TableSpec struct {
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	HasHeader   bool   `json:"hasHeader"`
	BorderWidth int    `json:"borderWidth"`
	Width       string `json:"width"`
	Floating    bool   `json:"floating"`
}

// normalized clamps every field into its valid range.
func (s TableSpec) normalized() TableSpec {
	s.Rows = clamp(s.Rows, 1, MaxDimension)
	s.Cols = clamp(s.Cols, 1, MaxDimension)
	s.BorderWidth = clamp(s.BorderWidth, 0, MaxBorderWidth)
	s.Width = strings.TrimSpace(s.Width)
	if !tableWidths[s.Width] {
		s.Width = "auto"
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func px(v int) string {
	return strconv.Itoa(v) + "px"
}

// InsertTable inserts a table at the caret, followed by an empty paragraph,
// and makes it the active object.
func (e *Editor) InsertTable(spec TableSpec) error {
	spec = spec.normalized()
	e.cancelGesture()

	t := e.buildTable(spec)
	e.insertObject(t, spec.Floating)
	e.log.Debug().Int("rows", spec.Rows).Int("cols", spec.Cols).Bool("floating", spec.Floating).Msg("table inserted")
	e.commit("insertTable")
	return nil
}

// InsertTextBox inserts a single-cell box at the caret and activates it.
func (e *Editor) InsertTextBox() error {
	e.cancelGesture()
	e.insertObject(e.buildTextBox(), false)
	e.commit("insertTextBox")
	return nil
}

// insertObject places a block object and a fresh trailer at the caret,
// moves the caret into the trailer and activates the object.
func (e *Editor) insertObject(n *html.Node, floating bool) {
	trailer := dom.NewEmptyParagraph()
	e.insertBlocks(n, trailer)
	e.setCaret(dom.StartOf(trailer))

	o, _ := object.From(n)
	if floating {
		e.float(o)
	}
	e.activate(o)
}

// InsertImage wraps an image in a non-editable container, inserts it inline
// at the caret and activates it. Width and height are optional.
func (e *Editor) InsertImage(src, alt string, width, height int) error {
	if strings.TrimSpace(src) == "" {
		e.log.Warn().Msg("image insertion refused: empty source")
		return fmt.Errorf("%w: empty image source", ErrInvalidArgument)
	}
	e.cancelGesture()

	w := newImageWrapper()
	img := dom.NewElement("img", "src", src, "alt", alt)
	if width > 0 {
		dom.SetAttr(img, "width", strconv.Itoa(width))
	}
	if height > 0 {
		dom.SetAttr(img, "height", strconv.Itoa(height))
	}
	dom.SetStyle(img, "display", "block", "max-width", "100%")
	w.AppendChild(img)

	e.insertInline(w)
	o, _ := object.From(w)
	e.activate(o)
	e.commit("insertImage")
	return nil
}

func newImageWrapper() *html.Node {
	w := dom.NewElement("span",
		"contenteditable", "false",
		"style", "display: inline-block; position: relative; max-width: 100%;",
	)
	object.Mark(w, object.KindImage)
	return w
}

// DeleteObject removes the active object, together with its trailer when
// the trailer is still empty.
func (e *Editor) DeleteObject() error {
	o := e.registry.Active()
	if o == nil {
		return ErrNoActiveObject
	}
	e.cancelGesture()
	e.registry.Deactivate()

	n := o.Node()
	parent := n.Parent
	if o.Kind().IsBlock() {
		if t := nextElement(n); isTrailer(t) {
			dom.Detach(t)
		}
		next := nextElement(n)
		dom.Detach(n)
		if next != nil && !object.IsObject(next) {
			e.setCaret(dom.StartOf(next))
		} else {
			e.hasSelection = false
		}
	} else {
		e.setCaret(dom.Position{Node: parent, Offset: dom.Index(n)})
		dom.Detach(n)
		if dom.IsElement(parent, "p") && parent.FirstChild == nil {
			e.hasSelection = false
			dom.Detach(parent)
		}
	}

	e.emitDeselected(o)
	emit(e, events.TopicObjectDeleted, events.ObjectDeleted{ID: o.ID(), Kind: o.Kind()})
	e.commit("deleteObject")
	return nil
}

func (e *Editor) buildTable(spec TableSpec) *html.Node {
	pal := e.probe.Palette()
	style := "solid"
	if spec.BorderWidth == 0 {
		style = "none"
	}

	t := dom.NewElement("table")
	object.Mark(t, object.KindTable)
	dom.SetStyle(t,
		"border-collapse", "collapse",
		"width", spec.Width,
		"border-width", px(spec.BorderWidth),
		"border-style", style,
		"border-color", pal.Border,
	)
	body := dom.NewElement("tbody")
	t.AppendChild(body)
	for r := 0; r < spec.Rows; r++ {
		tr := dom.NewElement("tr")
		for c := 0; c < spec.Cols; c++ {
			tr.AppendChild(newCell(r == 0 && spec.HasHeader, spec.BorderWidth, style, pal))
		}
		body.AppendChild(tr)
	}
	return t
}

func newCell(header bool, borderWidth int, borderStyle string, pal theme.Palette) *html.Node {
	tag := "td"
	if header {
		tag = "th"
	}
	c := dom.NewElement(tag)
	dom.SetStyle(c,
		"border-width", px(borderWidth),
		"border-style", borderStyle,
		"border-color", pal.Border,
		"padding", "6px 8px",
		"min-width", "40px",
	)
	if header {
		dom.SetStyle(c,
			"background-color", pal.HeaderBackground,
			"font-weight", "bold",
			"text-align", "left",
		)
	}
	c.AppendChild(dom.NewLineBreak())
	return c
}

func (e *Editor) buildTextBox() *html.Node {
	pal := e.probe.Palette()
	t := dom.NewElement("table")
	object.Mark(t, object.KindTextBox)
	dom.SetStyle(t,
		"border-collapse", "separate",
		"width", "auto",
		"min-width", "150px",
		"border-width", "1px",
		"border-style", "solid",
		"border-color", pal.Border,
		"border-radius", "8px",
		"box-shadow", "0 2px 8px rgba(0, 0, 0, 0.15)",
	)
	body := dom.NewElement("tbody")
	tr := dom.NewElement("tr")
	td := dom.NewElement("td", "style", "padding: 8px 10px; min-width: 150px; height: 60px; vertical-align: top;")
	td.AppendChild(dom.NewLineBreak())
	tr.AppendChild(td)
	body.AppendChild(tr)
	t.AppendChild(body)
	return t
}
