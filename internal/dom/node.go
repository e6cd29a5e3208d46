package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewElement creates a detached element with the given attributes.
// Attributes are given as alternating key/value pairs.
func NewElement(tag string, kv ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(kv); i += 2 {
		SetAttr(n, kv[i], kv[i+1])
	}
	return n
}

// NewText creates a detached text node.
func NewText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// NewLineBreak creates a detached <br> element.
func NewLineBreak() *html.Node {
	return NewElement("br")
}

// NewEmptyParagraph creates <p><br></p>, the caret anchor block.
func NewEmptyParagraph() *html.Node {
	p := NewElement("p")
	p.AppendChild(NewLineBreak())
	return p
}

// IsElement reports whether n is an element with one of the given tags.
// With no tags it reports whether n is an element at all.
func IsElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// Attr returns the value of the attribute key, or "" if absent.
func Attr(n *html.Node, key string) string {
	v, _ := LookupAttr(n, key)
	return v
}

// LookupAttr returns the value of the attribute key and whether it exists.
func LookupAttr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the attribute key is present.
func HasAttr(n *html.Node, key string) bool {
	_, ok := LookupAttr(n, key)
	return ok
}

// SetAttr sets the attribute key, replacing any existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes the attribute key if present.
func RemoveAttr(n *html.Node, keys ...string) {
	if n == nil {
		return
	}
	out := n.Attr[:0]
	for _, a := range n.Attr {
		drop := false
		for _, k := range keys {
			if a.Namespace == "" && a.Key == k {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, a)
		}
	}
	n.Attr = out
}

// HasClass reports whether the class attribute contains name.
func HasClass(n *html.Node, name string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends name to the class attribute if missing.
func AddClass(n *html.Node, name string) {
	if HasClass(n, name) {
		return
	}
	cls := strings.TrimSpace(Attr(n, "class") + " " + name)
	SetAttr(n, "class", cls)
}

// RemoveClass removes name from the class attribute.
func RemoveClass(n *html.Node, name string) {
	fields := strings.Fields(Attr(n, "class"))
	out := fields[:0]
	for _, c := range fields {
		if c != name {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(out, " "))
}

// Children returns the direct children of n as a slice.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// ElementChildren returns the element children of n with one of the tags.
func ElementChildren(n *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if IsElement(c, tags...) {
			out = append(out, c)
		}
	}
	return out
}

// ChildAt returns the i-th child of n or nil.
func ChildAt(n *html.Node, i int) *html.Node {
	if i < 0 {
		return nil
	}
	c := n.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

// ChildCount returns the number of children of n.
func ChildCount(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// Index returns the position of n among its siblings, or -1 if detached.
func Index(n *html.Node) int {
	if n == nil || n.Parent == nil {
		return -1
	}
	i := 0
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c == n {
			return i
		}
		i++
	}
	return -1
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertAfter inserts n as the next sibling of ref.
func InsertAfter(ref, n *html.Node) {
	Detach(n)
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

// InsertBefore inserts n as the previous sibling of ref.
func InsertBefore(ref, n *html.Node) {
	Detach(n)
	ref.Parent.InsertBefore(n, ref)
}

// InsertAt inserts n as the i-th child of parent. Out-of-range indexes append.
func InsertAt(parent, n *html.Node, i int) {
	Detach(n)
	parent.InsertBefore(n, ChildAt(parent, i))
}

// RemoveChildren removes every child of n.
func RemoveChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// Clone deep-copies n. The copy is detached.
func Clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(Clone(ch))
	}
	return c
}

// Contains reports whether n is ancestor or equal to other.
func Contains(n, other *html.Node) bool {
	for p := other; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Closest returns the nearest inclusive ancestor of n, bounded by root
// (exclusive), for which match returns true.
func Closest(n, root *html.Node, match func(*html.Node) bool) *html.Node {
	for p := n; p != nil && p != root; p = p.Parent {
		if match(p) {
			return p
		}
	}
	return nil
}

// Outermost returns the farthest inclusive ancestor of n below root for
// which match returns true.
func Outermost(n, root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	for p := n; p != nil && p != root; p = p.Parent {
		if match(p) {
			found = p
		}
	}
	return found
}

// TopLevel returns the ancestor of n that is a direct child of root.
func TopLevel(n, root *html.Node) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if p.Parent == root {
			return p
		}
	}
	return nil
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's subtree.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		Walk(c, fn)
		c = next
	}
}

// FindAll returns every descendant of n (exclusive) matching fn.
func FindAll(n *html.Node, fn func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, func(x *html.Node) bool {
			if fn(x) {
				out = append(out, x)
			}
			return true
		})
	}
	return out
}

// TextContent concatenates all text beneath n.
func TextContent(n *html.Node) string {
	var b strings.Builder
	Walk(n, func(x *html.Node) bool {
		if x.Type == html.TextNode {
			b.WriteString(x.Data)
		}
		return true
	})
	return b.String()
}

// IsEmptyBlock reports whether n holds no text and no elements other than
// <br>. A <p><br></p> is empty.
func IsEmptyBlock(n *html.Node) bool {
	if !IsElement(n) {
		return false
	}
	empty := true
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			if strings.TrimSpace(strings.ReplaceAll(c.Data, "\u00a0", " ")) != "" {
				empty = false
			}
		case IsElement(c, "br"):
		case c.Type == html.CommentNode:
		default:
			empty = false
		}
	}
	return empty
}

var blockTags = map[string]bool{
	"p": true, "div": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "ul": true, "ol": true, "li": true, "table": true,
	"blockquote": true, "pre": true, "hr": true, "section": true,
	"article": true, "header": true, "footer": true, "figure": true,
	"dl": true, "address": true,
}

// IsBlock reports whether n is a block-level element.
func IsBlock(n *html.Node) bool {
	return IsElement(n) && blockTags[n.Data]
}

// IsEditable reports whether n is inside editable content below root.
// A contenteditable="false" ancestor makes the node non-editable.
func IsEditable(n, root *html.Node) bool {
	return OutermostNonEditable(n, root) == nil
}

// OutermostNonEditable returns the farthest ancestor of n below root that
// carries contenteditable="false", or nil.
func OutermostNonEditable(n, root *html.Node) *html.Node {
	return Outermost(n, root, func(x *html.Node) bool {
		return IsElement(x) && strings.EqualFold(Attr(x, "contenteditable"), "false")
	})
}
