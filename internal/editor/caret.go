package editor

import (
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/object"
)

// SetSelection records the host selection. Start is the anchor and End the
// focus; they need not be in document order.
func (e *Editor) SetSelection(r dom.Range) error {
	if !e.inDocument(r.Start) || !e.inDocument(r.End) {
		return ErrInvalidSelection
	}
	e.selection = dom.Range{Start: r.Start.Clamp(), End: r.End.Clamp()}
	e.hasSelection = true
	return nil
}

// Selection returns the current selection, if any.
func (e *Editor) Selection() (dom.Range, bool) {
	if !e.hasSelection || !e.inDocument(e.selection.Start) || !e.inDocument(e.selection.End) {
		return dom.Range{}, false
	}
	return e.selection, true
}

func (e *Editor) setCaret(p dom.Position) {
	e.selection = dom.Collapsed(p.Clamp())
	e.hasSelection = true
}

func (e *Editor) inDocument(p dom.Position) bool {
	return p.Node != nil && dom.Contains(e.root, p.Node)
}

// ensureCaret creates a caret at the end of the document when there is no
// valid selection.
func (e *Editor) ensureCaret() {
	if _, ok := e.Selection(); ok {
		return
	}
	last := e.root.LastChild
	for last != nil && last.Type != html.ElementNode {
		last = last.PrevSibling
	}
	if last == nil || object.IsObject(last) || !dom.IsBlock(last) || dom.IsElement(last, "table", "hr", "ul", "ol") {
		p := dom.NewEmptyParagraph()
		e.root.AppendChild(p)
		e.setCaret(dom.StartOf(p))
		return
	}
	if dom.IsEmptyBlock(last) {
		e.setCaret(dom.StartOf(last))
		return
	}
	e.setCaret(dom.Position{Node: last, Offset: dom.ChildCount(last)})
}

// escapeCaret moves a caret out of non-editable content, to the position
// right after the outermost non-editable ancestor. It reports whether the
// caret moved.
func (e *Editor) escapeCaret() bool {
	sel, ok := e.Selection()
	if !ok {
		return false
	}
	ne := dom.OutermostNonEditable(sel.Start.Node, e.root)
	if ne == nil {
		return false
	}
	if object.IsHandle(ne) {
		if o, ok := object.Enclosing(ne, e.root); ok {
			e.setCaret(e.positionAfter(o))
			return true
		}
	}
	e.setCaret(dom.After(ne))
	return true
}

// positionAfter returns the first caret position after an object: inside
// its trailer for block objects, right after the wrapper for inline ones.
func (e *Editor) positionAfter(o object.Object) dom.Position {
	n := o.Node()
	if o.Kind().IsBlock() {
		if t := nextElement(n); isTrailer(t) {
			return dom.StartOf(t)
		}
	}
	return dom.After(n)
}

// caret returns the insertion point, creating or repairing it as needed.
func (e *Editor) caret() dom.Position {
	e.ensureCaret()
	e.escapeCaret()
	sel, _ := e.Selection()
	pos := sel.Normalize(e.root).Start

	// Table structure elements cannot hold inline content.
	if dom.IsElement(pos.Node, "table", "thead", "tbody", "tfoot", "tr") {
		if cells := object.AllCells(dom.Closest(pos.Node, e.root, func(n *html.Node) bool {
			return dom.IsElement(n, "table")
		})); len(cells) > 0 {
			pos = dom.StartOf(cells[0])
			e.setCaret(pos)
		}
	}
	return pos
}

// insertInline inserts n at the caret, splitting a text node if needed,
// and leaves the caret right after n.
func (e *Editor) insertInline(n *html.Node) {
	pos := e.caret()
	switch {
	case pos.Node.Type == html.TextNode:
		t := pos.Node
		switch {
		case pos.Offset <= 0:
			dom.InsertBefore(t, n)
		case pos.Offset >= len(t.Data):
			dom.InsertAfter(t, n)
		default:
			rest := dom.NewText(t.Data[pos.Offset:])
			t.Data = t.Data[:pos.Offset]
			dom.InsertAfter(t, rest)
			dom.InsertBefore(rest, n)
		}
	case pos.Node == e.root:
		p := dom.NewElement("p")
		dom.InsertAt(e.root, p, pos.Offset)
		p.AppendChild(n)
	default:
		dom.InsertAt(pos.Node, n, pos.Offset)
	}
	e.setCaret(dom.After(n))
}

// insertBlocks inserts top-level nodes at the block insertion point of the
// caret: after the top-level block holding it, before that block when the
// caret is at its very start, and after the trailer when the caret is in a
// block object.
func (e *Editor) insertBlocks(nodes ...*html.Node) {
	pos := e.caret()
	var ref *html.Node
	if pos.Node == e.root {
		ref = dom.ChildAt(e.root, pos.Offset)
	} else {
		top := dom.TopLevel(pos.Node, e.root)
		k, isObj := object.KindOf(top)
		switch {
		case isObj && k.IsBlock():
			after := top
			if t := nextElement(top); isTrailer(t) {
				after = t
			}
			ref = after.NextSibling
		case atBlockStart(pos, top) && !dom.IsEmptyBlock(top):
			ref = top
		default:
			ref = top.NextSibling
		}
	}
	for _, n := range nodes {
		dom.Detach(n)
		e.root.InsertBefore(n, ref)
	}
}

// atBlockStart reports whether nothing precedes pos inside top.
func atBlockStart(pos dom.Position, top *html.Node) bool {
	if pos.Offset != 0 {
		return false
	}
	for n := pos.Node; n != nil && n != top; n = n.Parent {
		for s := n.PrevSibling; s != nil; s = s.PrevSibling {
			if !(s.Type == html.TextNode && s.Data == "") && s.Type != html.CommentNode {
				return false
			}
		}
	}
	return true
}

// caretCell returns the table cell of table that holds the selection
// anchor.
func (e *Editor) caretCell(table *html.Node) (cell *html.Node, row, col int, ok bool) {
	sel, has := e.Selection()
	if !has {
		return nil, 0, 0, false
	}
	n := sel.Start.Node
	if n.Type == html.ElementNode && sel.Start.Offset < dom.ChildCount(n) {
		if c := dom.ChildAt(n, sel.Start.Offset); c != nil && dom.IsElement(c, "td", "th") {
			n = c
		}
	}
	return object.CellOf(table, n)
}
