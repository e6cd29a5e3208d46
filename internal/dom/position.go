package dom

import (
	"math"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Position is a DOM boundary point.
// For element containers Offset is a child index; for text nodes it is a
// byte offset into Data that always falls on a rune boundary. Offsets
// exchanged with the host count UTF-16 code units instead; see ByteOffset.
type Position struct {
	Node   *html.Node
	Offset int
}

// IsZero reports whether the position has no container.
func (p Position) IsZero() bool {
	return p.Node == nil
}

// Clamp returns p with Offset limited to the container's extent.
func (p Position) Clamp() Position {
	if p.Node == nil {
		return p
	}
	limit := ChildCount(p.Node)
	if p.Node.Type == html.TextNode {
		limit = len(p.Node.Data)
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Offset > limit {
		p.Offset = limit
	}
	if p.Node.Type == html.TextNode {
		p.Offset = RuneStart(p.Node.Data, p.Offset)
	}
	return p
}

// RuneStart moves byte offset i in s back to the start of the rune it
// falls inside.
func RuneStart(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// ByteOffset converts an offset in UTF-16 code units into a byte offset
// into s. Offsets past the end map to len(s); an offset inside a
// surrogate pair maps to the start of that rune.
func ByteOffset(s string, units int) int {
	if units <= 0 {
		return 0
	}
	n := 0
	for i, r := range s {
		w := 1
		if r >= 0x10000 {
			w = 2
		}
		if n+w > units {
			return i
		}
		n += w
	}
	return len(s)
}

// Before returns the position immediately before n in its parent.
func Before(n *html.Node) Position {
	return Position{Node: n.Parent, Offset: Index(n)}
}

// After returns the position immediately after n in its parent.
func After(n *html.Node) Position {
	return Position{Node: n.Parent, Offset: Index(n) + 1}
}

// StartOf returns the first position inside n.
func StartOf(n *html.Node) Position {
	return Position{Node: n, Offset: 0}
}

// Range is a pair of boundary points. Start may come after End when built
// from an anchor/focus selection; use Normalize to order it.
type Range struct {
	Start Position
	End   Position
}

// Collapsed returns a range with both ends at p.
func Collapsed(p Position) Range {
	return Range{Start: p, End: p}
}

// IsCollapsed reports whether both ends are the same point.
func (r Range) IsCollapsed() bool {
	return r.Start.Node == r.End.Node && r.Start.Offset == r.End.Offset
}

// Normalize returns r with Start not after End, both relative to root.
func (r Range) Normalize(root *html.Node) Range {
	if Compare(root, r.Start, r.End) > 0 {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

// key maps a boundary point to a sortable sequence. Node i of a parent is
// encoded as 2i+1 and the gap before child i as 2i, so points between
// children order correctly against the subtrees around them.
func key(root *html.Node, p Position) ([]int, bool) {
	path, ok := PathOf(root, p.Node)
	if !ok {
		return nil, false
	}
	k := make([]int, 0, len(path)+1)
	for _, i := range path {
		k = append(k, 2*i+1)
	}
	if p.Node.Type == html.TextNode {
		k = append(k, p.Offset)
	} else {
		k = append(k, 2*p.Offset)
	}
	return k, true
}

func nodeSpan(root, n *html.Node) (start, end []int, ok bool) {
	path, ok := PathOf(root, n)
	if !ok {
		return nil, nil, false
	}
	start = make([]int, 0, len(path))
	for _, i := range path {
		start = append(start, 2*i+1)
	}
	end = append(append([]int(nil), start...), math.MaxInt)
	return start, end, true
}

func compareKeys(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Compare orders two positions inside root. Positions outside root sort
// after everything else.
func Compare(root *html.Node, a, b Position) int {
	ka, okA := key(root, a)
	kb, okB := key(root, b)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	return compareKeys(ka, kb)
}

// Intersects reports whether any part of n lies within r. A collapsed range
// inside n intersects it.
func (r Range) Intersects(root, n *html.Node) bool {
	r = r.Normalize(root)
	ns, ne, ok := nodeSpan(root, n)
	if !ok {
		return false
	}
	s, okS := key(root, r.Start)
	e, okE := key(root, r.End)
	if !okS || !okE {
		return false
	}
	return compareKeys(ns, e) <= 0 && compareKeys(ne, s) >= 0
}
