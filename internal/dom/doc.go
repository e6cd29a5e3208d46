// Package dom provides the tree model the editing engine operates on.
//
// The document is an ordinary golang.org/x/net/html node tree rooted at an
// editable container element. This package adds the small set of operations
// the engine needs on top of the raw tree:
//
//   - Element construction and attribute access
//   - Inline style parsing and rewriting (ordered declarations)
//   - Node paths, used to address nodes across the host bridge
//   - Boundary positions and ranges with DOM offset semantics
//   - Fragment parsing and inner-HTML serialization
//   - XPath queries via htmlquery
//
// # Positions
//
// A Position follows the DOM boundary-point convention: inside an element
// the offset is a child index, inside a text node it is a byte offset into
// the text.
//
//	pos := dom.Position{Node: paragraph, Offset: 1} // after the first child
//
// Positions compare in document order, which is what range containment and
// node intersection are built on.
//
// # Paths
//
// Paths are child-index sequences from the root. They are how the host
// refers to nodes it saw in the rendered view:
//
//	node := dom.Resolve(root, dom.Path{2, 0, 1})
package dom
