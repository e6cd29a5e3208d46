package object

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
)

// Fallback geometry when the host has not measured an object.
const (
	DefaultWidth  = 400.0
	DefaultHeight = 120.0
)

// alignmentProps are the style properties owned by alignment modes.
// Switching modes clears all of them before applying the new mode.
var alignmentProps = []string{
	"float", "margin", "margin-left", "margin-right", "margin-top",
	"margin-bottom", "width", "position", "left", "top", "z-index", "display",
}

type base struct {
	node *html.Node
}

func (b *base) Kind() Kind {
	k, _ := KindOf(b.node)
	return k
}

func (b *base) ID() string {
	return dom.Attr(b.node, AttrID)
}

func (b *base) Node() *html.Node {
	return b.node
}

func (b *base) Alignment() Alignment {
	return Alignment(dom.Attr(b.node, AttrAlign))
}

func (b *base) IsFloating() bool {
	return b.Alignment() == AlignFloating || dom.GetStyle(b.node, "position") == "absolute"
}

// Bounds prefers host measurements and falls back to inline pixel values.
func (b *base) Bounds(l Layout) Rect {
	if l != nil {
		if r, ok := l.BoundsOf(b.node); ok {
			return r
		}
	}
	st := dom.StyleOf(b.node)
	r := Rect{Width: DefaultWidth, Height: DefaultHeight}
	if v, ok := ParsePx(st.Get("left")); ok {
		r.X = v
	}
	if v, ok := ParsePx(st.Get("top")); ok {
		r.Y = v
	}
	if v, ok := ParsePx(st.Get("width")); ok {
		r.Width = v
	}
	if v, ok := ParsePx(st.Get("height")); ok {
		r.Height = v
	}
	return r
}

// restoreContext re-establishes the relative positioning context after an
// alignment change cleared it.
func (b *base) restoreContext(st *dom.Style) {
	if dom.HasAttr(b.node, AttrPositioned) {
		st.Set("position", "relative")
	}
}

func (b *base) applyBlockAlignment(a Alignment) {
	st := dom.StyleOf(b.node)
	st.Remove(alignmentProps...)
	switch a {
	case AlignLeftWrap:
		st.Set("float", "left")
		st.Set("margin", "0 12px 8px 0")
		st.Set("width", "auto")
	case AlignRightWrap:
		st.Set("float", "right")
		st.Set("margin", "0 0 8px 12px")
		st.Set("width", "auto")
	case AlignCenter:
		st.Set("margin-left", "auto")
		st.Set("margin-right", "auto")
		st.Set("width", "auto")
	case AlignFullWidth:
		st.Set("width", "100%")
	}
	b.restoreContext(st)
	dom.SetStyleOf(b.node, st)
	if a == AlignNone {
		dom.RemoveAttr(b.node, AttrAlign)
	} else {
		dom.SetAttr(b.node, AttrAlign, string(a))
	}
}

func (b *base) applyFloating(x, y float64) {
	st := dom.StyleOf(b.node)
	width := st.Get("width")
	st.Remove(alignmentProps...)
	st.Set("position", "absolute")
	st.Set("left", FormatPx(x))
	st.Set("top", FormatPx(y))
	st.Set("z-index", "10")
	if width != "" && width != "auto" {
		st.Set("width", width)
	}
	dom.SetStyleOf(b.node, st)
	dom.SetAttr(b.node, AttrAlign, string(AlignFloating))
}

func (b *base) baseProps(l Layout) Props {
	st := dom.StyleOf(b.node)
	p := Props{
		ID:        b.ID(),
		Kind:      b.Kind(),
		Alignment: b.Alignment(),
		Floating:  b.IsFloating(),
		Width:     st.Get("width"),
	}
	if p.Floating {
		r := b.Bounds(l)
		p.X, p.Y = r.X, r.Y
	}
	if v := dom.Attr(b.node, AttrShadow); v != "" {
		p.Shadow = true
		p.ShadowIntensity, _ = strconv.Atoi(v)
	}
	return p
}

// Table is a table object.
type Table struct {
	base
}

// ApplyAlignment switches the table to a non-floating alignment mode.
// AlignFloating is ignored; use ApplyFloating.
func (t *Table) ApplyAlignment(a Alignment) {
	if a == AlignFloating {
		return
	}
	t.applyBlockAlignment(a)
}

// ApplyFloating positions the table absolutely at (x, y).
func (t *Table) ApplyFloating(x, y float64) {
	t.applyFloating(x, y)
}

// Rows returns the table's rows in order.
func (t *Table) Rows() []*html.Node {
	return Rows(t.node)
}

// Props reports the table's current properties.
func (t *Table) Props(l Layout) Props {
	p := t.baseProps(l)
	rows := t.Rows()
	p.Rows = len(rows)
	if len(rows) > 0 {
		p.Cols = len(Cells(rows[0]))
		p.HasHeader = len(dom.ElementChildren(rows[0], "th")) > 0
	}
	st := dom.StyleOf(t.node)
	dom.ExpandBorder(st)
	p.BorderStyle = st.Get("border-style")
	if w, ok := ParsePx(st.Get("border-width")); ok {
		p.BorderWidth = int(w)
	}
	p.BorderColor = st.Get("border-color")
	p.Background = st.Get("background-color")
	return p
}

// TextBox is a single-cell table styled as a box.
type TextBox struct {
	Table
}

// Image is an image inside a non-editable positioning wrapper.
type Image struct {
	base
}

// Img returns the wrapped <img> element.
func (i *Image) Img() *html.Node {
	for _, n := range dom.FindAll(i.node, func(n *html.Node) bool { return dom.IsElement(n, "img") }) {
		return n
	}
	return nil
}

// ApplyAlignment switches the image wrapper to a non-floating mode.
func (i *Image) ApplyAlignment(a Alignment) {
	if a == AlignFloating {
		return
	}
	st := dom.StyleOf(i.node)
	st.Remove(alignmentProps...)
	st.Set("display", "inline-block")
	switch a {
	case AlignLeftWrap:
		st.Set("float", "left")
		st.Set("margin", "0 12px 8px 0")
	case AlignRightWrap:
		st.Set("float", "right")
		st.Set("margin", "0 0 8px 12px")
	case AlignCenter:
		st.Set("display", "block")
		st.Set("width", "fit-content")
		st.Set("margin-left", "auto")
		st.Set("margin-right", "auto")
	case AlignFullWidth:
		st.Set("display", "block")
		st.Set("width", "100%")
	}
	st.Set("position", "relative")
	dom.SetStyleOf(i.node, st)

	if img := i.Img(); img != nil {
		if a == AlignFullWidth {
			dom.SetStyle(img, "width", "100%", "height", "auto")
		} else if dom.GetStyle(img, "width") == "100%" {
			dom.RemoveStyle(img, "width", "height")
		}
	}
	if a == AlignNone {
		dom.RemoveAttr(i.node, AttrAlign)
	} else {
		dom.SetAttr(i.node, AttrAlign, string(a))
	}
}

// ApplyFloating positions the image wrapper absolutely at (x, y).
func (i *Image) ApplyFloating(x, y float64) {
	i.applyFloating(x, y)
	dom.SetStyle(i.node, "display", "inline-block")
}

// Bounds uses the wrapper's measurements, then the image's size attributes.
func (i *Image) Bounds(l Layout) Rect {
	r := i.base.Bounds(l)
	if l != nil {
		if _, ok := l.BoundsOf(i.node); ok {
			return r
		}
	}
	if img := i.Img(); img != nil {
		if v, ok := ParsePx(dom.GetStyle(img, "width")); ok {
			r.Width = v
		} else if v, ok := ParsePx(dom.Attr(img, "width")); ok {
			r.Width = v
		}
		if v, ok := ParsePx(dom.GetStyle(img, "height")); ok {
			r.Height = v
		} else if v, ok := ParsePx(dom.Attr(img, "height")); ok {
			r.Height = v
		}
	}
	return r
}

// Props reports the image's current properties.
func (i *Image) Props(l Layout) Props {
	p := i.baseProps(l)
	if img := i.Img(); img != nil {
		p.Src = dom.Attr(img, "src")
		p.Alt = dom.Attr(img, "alt")
		if w := dom.GetStyle(img, "width"); w != "" {
			p.Width = w
		} else if w := dom.Attr(img, "width"); w != "" {
			p.Width = w + "px"
		}
	}
	return p
}
