// Package object models the compound, directly-manipulable entities of the
// document (tables, text boxes and images) and the single active-object
// slot with its drag and resize handles.
package object

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
)

// Attribute names used to mark objects and decorations.
const (
	AttrKind       = "data-object"
	AttrID         = "data-object-id"
	AttrAlign      = "data-align"
	AttrActive     = "data-active"
	AttrPositioned = "data-positioned"
	AttrHandle     = "data-handle"
	AttrShadow     = "data-shadow"
)

// Kind identifies the variant of an Object.
type Kind string

const (
	// KindTable is a table object.
	KindTable Kind = "table"
	// KindTextBox is a single-cell styled table.
	KindTextBox Kind = "textbox"
	// KindImage is an image inside a non-editable wrapper.
	KindImage Kind = "image"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindTable || k == KindTextBox || k == KindImage
}

// IsBlock reports whether objects of this kind sit in the block flow.
func (k Kind) IsBlock() bool {
	return k == KindTable || k == KindTextBox
}

// Alignment is the placement mode of an Object.
type Alignment string

const (
	AlignNone      Alignment = ""
	AlignLeftWrap  Alignment = "left-wrap"
	AlignCenter    Alignment = "center"
	AlignRightWrap Alignment = "right-wrap"
	AlignFullWidth Alignment = "full-width"
	AlignFloating  Alignment = "floating"
)

// ParseAlignment validates an alignment mode name.
func ParseAlignment(s string) (Alignment, bool) {
	switch a := Alignment(strings.ToLower(strings.TrimSpace(s))); a {
	case AlignLeftWrap, AlignCenter, AlignRightWrap, AlignFullWidth, AlignFloating:
		return a, true
	}
	return AlignNone, false
}

// Rect is a box in document coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Layout supplies measured geometry from the rendering host.
type Layout interface {
	// BoundsOf returns the rendered box of n if the host reported one.
	BoundsOf(n *html.Node) (Rect, bool)
}

// Object is the capability set shared by every kind.
type Object interface {
	Kind() Kind
	ID() string
	Node() *html.Node
	Bounds(l Layout) Rect
	Alignment() Alignment
	IsFloating() bool
	ApplyAlignment(a Alignment)
	ApplyFloating(x, y float64)
	Props(l Layout) Props
}

// Props is the property snapshot sent to the host with selection events.
type Props struct {
	ID              string    `json:"id"`
	Kind            Kind      `json:"kind"`
	Alignment       Alignment `json:"alignment"`
	Floating        bool      `json:"floating"`
	X               float64   `json:"x"`
	Y               float64   `json:"y"`
	Width           string    `json:"width,omitempty"`
	Rows            int       `json:"rows,omitempty"`
	Cols            int       `json:"cols,omitempty"`
	HasHeader       bool      `json:"hasHeader,omitempty"`
	BorderStyle     string    `json:"borderStyle,omitempty"`
	BorderWidth     int       `json:"borderWidth"`
	BorderColor     string    `json:"borderColor,omitempty"`
	Background      string    `json:"background,omitempty"`
	Shadow          bool      `json:"shadow"`
	ShadowIntensity int       `json:"shadowIntensity,omitempty"`
	Src             string    `json:"src,omitempty"`
	Alt             string    `json:"alt,omitempty"`
}

// NewID returns a fresh object identifier.
func NewID() string {
	return uuid.NewString()
}

// Mark tags n as an object of kind k, assigning an id if it has none.
func Mark(n *html.Node, k Kind) {
	dom.SetAttr(n, AttrKind, string(k))
	if dom.Attr(n, AttrID) == "" {
		dom.SetAttr(n, AttrID, NewID())
	}
}

// KindOf returns the object kind of n, if n is an object root.
func KindOf(n *html.Node) (Kind, bool) {
	if !dom.IsElement(n) {
		return "", false
	}
	k := Kind(dom.Attr(n, AttrKind))
	return k, k.Valid()
}

// IsObject reports whether n is an object root.
func IsObject(n *html.Node) bool {
	_, ok := KindOf(n)
	return ok
}

// From wraps an object root in its kind's implementation.
func From(n *html.Node) (Object, bool) {
	k, ok := KindOf(n)
	if !ok {
		return nil, false
	}
	switch k {
	case KindTable:
		return &Table{base{node: n}}, true
	case KindTextBox:
		return &TextBox{Table{base{node: n}}}, true
	case KindImage:
		return &Image{base{node: n}}, true
	}
	return nil, false
}

// Enclosing returns the innermost object containing n, below root.
func Enclosing(n, root *html.Node) (Object, bool) {
	found := dom.Closest(n, root, IsObject)
	if found == nil {
		return nil, false
	}
	return From(found)
}

// ParsePx parses "12px" or "12" into 12. Other units fail.
func ParsePx(v string) (float64, bool) {
	v = strings.TrimSpace(strings.ToLower(v))
	v = strings.TrimSuffix(v, "px")
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatPx renders a pixel length, dropping a zero fraction.
func FormatPx(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64) + "px"
}
