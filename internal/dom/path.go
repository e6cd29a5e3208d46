package dom

import (
	"golang.org/x/net/html"
)

// Path addresses a node by child indexes from a root.
// The empty path addresses the root itself.
type Path []int

// PathOf returns the path from root to n, or nil and false if n is not
// inside root.
func PathOf(root, n *html.Node) (Path, bool) {
	var rev []int
	for p := n; p != root; p = p.Parent {
		if p == nil {
			return nil, false
		}
		rev = append(rev, Index(p))
	}
	out := make(Path, len(rev))
	for i, v := range rev {
		out[len(rev)-1-i] = v
	}
	return out, true
}

// Resolve returns the node at path below root, or nil.
func Resolve(root *html.Node, path Path) *html.Node {
	n := root
	for _, i := range path {
		if n == nil {
			return nil
		}
		n = ChildAt(n, i)
	}
	return n
}

// Equal reports whether two paths are identical.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}
