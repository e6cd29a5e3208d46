package object

import (
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
)

// Registry owns the single active-object slot of a document.
//
// Activation is a scoped acquisition: Activate installs the active marker,
// the positioning context and both handles; Deactivate removes exactly what
// Activate installed. Activating an object first deactivates the previous
// one, so at most one object ever carries handles.
type Registry struct {
	root    *html.Node
	active  Object
	handles map[HandleKind]*html.Node
}

// NewRegistry creates a registry for the document rooted at root.
func NewRegistry(root *html.Node) *Registry {
	return &Registry{root: root}
}

// Active returns the active object, or nil.
func (r *Registry) Active() Object {
	return r.active
}

// IsActive reports whether o is the active object.
func (r *Registry) IsActive(o Object) bool {
	return r.active != nil && o != nil && r.active.Node() == o.Node()
}

// Handle returns the handle element of the given kind on the active object.
func (r *Registry) Handle(kind HandleKind) *html.Node {
	return r.handles[kind]
}

// Activate makes o the active object and returns the previously active
// one (nil if none, or if o was already active).
func (r *Registry) Activate(o Object) Object {
	if o == nil || r.IsActive(o) {
		return nil
	}
	prev := r.Deactivate()

	n := o.Node()
	dom.SetAttr(n, AttrActive, "true")
	if !o.IsFloating() && dom.GetStyle(n, "position") == "" {
		dom.SetStyle(n, "position", "relative")
		dom.SetAttr(n, AttrPositioned, "true")
	}

	floating := o.IsFloating()
	r.handles = map[HandleKind]*html.Node{
		HandleDrag:   newHandle(n, HandleDrag, floating),
		HandleResize: newHandle(n, HandleResize, floating),
	}
	n.AppendChild(r.handles[HandleDrag])
	n.AppendChild(r.handles[HandleResize])
	r.active = o
	return prev
}

// Deactivate clears the active slot and removes its decorations. It returns
// the object that was active, or nil.
func (r *Registry) Deactivate() Object {
	prev := r.active
	if prev == nil {
		return nil
	}
	for _, h := range r.handles {
		dom.Detach(h)
	}
	n := prev.Node()
	dom.RemoveAttr(n, AttrActive)
	if dom.HasAttr(n, AttrPositioned) {
		dom.RemoveAttr(n, AttrPositioned)
		if dom.GetStyle(n, "position") == "relative" {
			dom.RemoveStyle(n, "position")
		}
	}
	r.active = nil
	r.handles = nil
	return prev
}

// Forget drops the active slot without touching the tree. Used when the
// document content was replaced wholesale.
func (r *Registry) Forget() {
	r.active = nil
	r.handles = nil
}

// Validate clears the active slot if its object is no longer in the
// document. It returns true if the slot was cleared.
func (r *Registry) Validate() bool {
	if r.active == nil {
		return false
	}
	if dom.Contains(r.root, r.active.Node()) {
		return false
	}
	r.Forget()
	return true
}

// RefreshHandles updates the drag affordance and positioning context after
// the active object switched between flow and floating placement.
func (r *Registry) RefreshHandles() {
	if r.active == nil {
		return
	}
	n := r.active.Node()
	floating := r.active.IsFloating()
	if floating && dom.HasAttr(n, AttrPositioned) {
		dom.RemoveAttr(n, AttrPositioned)
	}
	if !floating && dom.GetStyle(n, "position") == "" {
		dom.SetStyle(n, "position", "relative")
		dom.SetAttr(n, AttrPositioned, "true")
	}
	if h := r.handles[HandleDrag]; h != nil {
		setDragAffordance(h, floating)
	}
}

// Objects returns every object in the document in document order.
func (r *Registry) Objects() []Object {
	nodes := dom.MustQueryAll(r.root, "//*[@"+AttrKind+"]")
	out := make([]Object, 0, len(nodes))
	for _, n := range nodes {
		if n == r.root {
			continue
		}
		if o, ok := From(n); ok {
			out = append(out, o)
		}
	}
	return out
}

// Find returns the object with the given id.
func (r *Registry) Find(id string) (Object, bool) {
	for _, o := range r.Objects() {
		if o.ID() == id {
			return o, true
		}
	}
	return nil, false
}

// ActiveCount counts elements carrying the active marker. Invariant: <= 1.
func (r *Registry) ActiveCount() int {
	return len(dom.FindAll(r.root, func(n *html.Node) bool {
		return dom.IsElement(n) && dom.HasAttr(n, AttrActive)
	}))
}
