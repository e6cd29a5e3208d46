package editor

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/object"
)

// normalize restores the document invariants after any change, whether
// made by an editor command, a paste or a native edit reported by the host.
// It reports whether the tree was modified.
func (e *Editor) normalize() bool {
	changed := e.wrapBareImages()
	changed = e.wrapInlineRuns() || changed
	changed = e.adoptTables() || changed
	changed = e.assignIDs() || changed
	changed = e.stripStaleDecorations() || changed
	changed = e.ensureTrailers() || changed
	changed = e.ensureNonEmpty() || changed
	return changed
}

// validateActive clears the active slot when its object left the document
// and returns the lost object.
func (e *Editor) validateActive() object.Object {
	prev := e.registry.Active()
	if prev != nil && e.registry.Validate() {
		return prev
	}
	return nil
}

func isWhitespaceText(n *html.Node) bool {
	return n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}

func isInline(n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		return true
	case html.ElementNode:
		if object.IsObject(n) {
			k, _ := object.KindOf(n)
			return !k.IsBlock()
		}
		return !dom.IsBlock(n)
	}
	return false
}

// wrapInlineRuns groups consecutive top-level inline nodes into paragraphs
// and drops whitespace between blocks.
func (e *Editor) wrapInlineRuns() bool {
	changed := false
	var run *html.Node
	for c := e.root.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case isWhitespaceText(c) && run == nil:
			dom.Detach(c)
			changed = true
		case isInline(c):
			if run == nil {
				run = dom.NewElement("p")
				dom.InsertBefore(c, run)
			}
			dom.Detach(c)
			run.AppendChild(c)
			changed = true
		case c.Type == html.CommentNode:
		default:
			run = nil
		}
		c = next
	}
	return changed
}

// wrapBareImages puts every <img> outside an image object into a wrapper.
func (e *Editor) wrapBareImages() bool {
	imgs := dom.FindAll(e.root, func(n *html.Node) bool {
		if !dom.IsElement(n, "img") {
			return false
		}
		o, ok := object.Enclosing(n, e.root)
		return !ok || o.Kind() != object.KindImage
	})
	for _, img := range imgs {
		w := newImageWrapper()
		dom.InsertBefore(img, w)
		w.AppendChild(img)
	}
	return len(imgs) > 0
}

// adoptTables marks top-level tables that are not objects yet, for example
// after a paste.
func (e *Editor) adoptTables() bool {
	changed := false
	for _, t := range dom.ElementChildren(e.root, "table") {
		if k, ok := object.KindOf(t); ok && k.IsBlock() {
			continue
		}
		dom.RemoveAttr(t, object.AttrKind)
		object.Mark(t, object.KindTable)
		changed = true
	}
	return changed
}

// assignIDs gives objects without an id, or with a duplicated one, a fresh id.
func (e *Editor) assignIDs() bool {
	changed := false
	seen := make(map[string]bool)
	for _, o := range e.registry.Objects() {
		id := o.ID()
		if id == "" || seen[id] {
			if e.registry.IsActive(o) {
				seen[id] = true
				continue
			}
			id = object.NewID()
			dom.SetAttr(o.Node(), object.AttrID, id)
			changed = true
		}
		seen[id] = true
	}
	return changed
}

// stripStaleDecorations removes handles and active markers that do not
// belong to the registry's active object.
func (e *Editor) stripStaleDecorations() bool {
	changed := false
	own := map[*html.Node]bool{
		e.registry.Handle(object.HandleDrag):   true,
		e.registry.Handle(object.HandleResize): true,
	}
	for _, h := range dom.FindAll(e.root, object.IsHandle) {
		if !own[h] {
			dom.Detach(h)
			changed = true
		}
	}
	var active *html.Node
	if o := e.registry.Active(); o != nil {
		active = o.Node()
	}
	for _, n := range dom.FindAll(e.root, func(n *html.Node) bool {
		return dom.IsElement(n) && (dom.HasAttr(n, object.AttrActive) || dom.HasAttr(n, object.AttrPositioned))
	}) {
		if n == active {
			continue
		}
		if dom.HasAttr(n, object.AttrPositioned) && dom.GetStyle(n, "position") == "relative" {
			dom.RemoveStyle(n, "position")
		}
		dom.RemoveAttr(n, object.AttrActive, object.AttrPositioned)
		changed = true
	}
	return changed
}

// ensureTrailers keeps an empty block after every top-level block object.
func (e *Editor) ensureTrailers() bool {
	changed := false
	for c := e.root.FirstChild; c != nil; c = c.NextSibling {
		k, ok := object.KindOf(c)
		if !ok || !k.IsBlock() {
			continue
		}
		if !isTrailer(nextElement(c)) {
			dom.InsertAfter(c, dom.NewEmptyParagraph())
			changed = true
		}
	}
	return changed
}

// ensureNonEmpty installs an empty paragraph in a document without blocks.
func (e *Editor) ensureNonEmpty() bool {
	for c := e.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return false
		}
	}
	e.root.AppendChild(dom.NewEmptyParagraph())
	return true
}

func nextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
		if s.Type == html.TextNode && !isWhitespaceText(s) {
			return nil
		}
	}
	return nil
}

func prevElement(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
		if s.Type == html.TextNode && !isWhitespaceText(s) {
			return nil
		}
	}
	return nil
}

// ObserveInput replaces the document with content edited natively by the
// host view and records it as one logical change. The active object stays
// active if it survived the edit.
func (e *Editor) ObserveInput(content string) error {
	nodes, err := dom.ParseFragment(content)
	if err != nil {
		return err
	}
	before := e.cleanHTML()
	prev := e.registry.Active()

	e.cancelGesture()
	e.registry.Forget()
	dom.RemoveChildren(e.root)
	for _, n := range nodes {
		e.root.AppendChild(n)
	}
	e.hasSelection = false
	e.normalize()

	if prev != nil {
		if o, ok := e.registry.Find(prev.ID()); ok {
			e.registry.Activate(o)
		} else {
			e.emitDeselected(prev)
		}
	}
	if e.cleanHTML() == before {
		return nil
	}
	e.commit("input")
	return nil
}

// Paste inserts an HTML fragment at the caret. Fragments with block
// content are inserted as blocks; inline fragments go in at the caret.
func (e *Editor) Paste(content string) error {
	nodes, err := dom.ParseFragment(content)
	if err != nil {
		return err
	}
	block := false
	kept := nodes[:0]
	for _, n := range nodes {
		if n.Type == html.CommentNode {
			continue
		}
		if !isInline(n) {
			block = true
		}
		kept = append(kept, n)
	}
	if len(kept) == 0 {
		return ErrInvalidArgument
	}

	e.cancelGesture()
	if block {
		e.insertBlocks(kept...)
		last := kept[len(kept)-1]
		e.setCaret(dom.After(last))
	} else {
		for _, n := range kept {
			e.insertInline(n)
		}
	}
	e.commit("paste")
	return nil
}
