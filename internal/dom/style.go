package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Declaration is one property: value pair of an inline style.
type Declaration struct {
	Property string
	Value    string
}

// Style is an ordered list of inline style declarations.
// Property names are stored lower-cased.
type Style struct {
	decls []Declaration
}

// ParseStyle parses the contents of a style attribute.
func ParseStyle(s string) *Style {
	st := &Style{}
	for _, part := range strings.Split(s, ";") {
		idx := strings.Index(part, ":")
		if idx < 0 {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(part[:idx]))
		val := strings.TrimSpace(part[idx+1:])
		if prop == "" || val == "" {
			continue
		}
		st.Set(prop, val)
	}
	return st
}

// Get returns the value for prop, or "".
func (s *Style) Get(prop string) string {
	prop = strings.ToLower(prop)
	for _, d := range s.decls {
		if d.Property == prop {
			return d.Value
		}
	}
	return ""
}

// Has reports whether prop is declared.
func (s *Style) Has(prop string) bool {
	prop = strings.ToLower(prop)
	for _, d := range s.decls {
		if d.Property == prop {
			return true
		}
	}
	return false
}

// Set assigns prop, keeping the original position if already declared.
// An empty value removes the property.
func (s *Style) Set(prop, val string) {
	prop = strings.ToLower(prop)
	if val == "" {
		s.Remove(prop)
		return
	}
	for i, d := range s.decls {
		if d.Property == prop {
			s.decls[i].Value = val
			return
		}
	}
	s.decls = append(s.decls, Declaration{Property: prop, Value: val})
}

// Remove deletes every listed property.
func (s *Style) Remove(props ...string) {
	out := s.decls[:0]
	for _, d := range s.decls {
		keep := true
		for _, p := range props {
			if d.Property == strings.ToLower(p) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, d)
		}
	}
	s.decls = out
}

// Len returns the number of declarations.
func (s *Style) Len() int {
	return len(s.decls)
}

// Declarations returns a copy of the declarations in order.
func (s *Style) Declarations() []Declaration {
	return append([]Declaration(nil), s.decls...)
}

// String renders the style in attribute form ("a: b; c: d;").
func (s *Style) String() string {
	if len(s.decls) == 0 {
		return ""
	}
	var b strings.Builder
	for i, d := range s.decls {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.Property)
		b.WriteString(": ")
		b.WriteString(d.Value)
		b.WriteByte(';')
	}
	return b.String()
}

// StyleOf parses the style attribute of n.
func StyleOf(n *html.Node) *Style {
	return ParseStyle(Attr(n, "style"))
}

// SetStyleOf writes st back to n, dropping the attribute when empty.
func SetStyleOf(n *html.Node, st *Style) {
	if st.Len() == 0 {
		RemoveAttr(n, "style")
		return
	}
	SetAttr(n, "style", st.String())
}

// GetStyle returns a single inline style property of n.
func GetStyle(n *html.Node, prop string) string {
	return StyleOf(n).Get(prop)
}

// SetStyle updates inline style properties of n. Arguments are alternating
// property/value pairs; an empty value removes the property.
func SetStyle(n *html.Node, kv ...string) {
	st := StyleOf(n)
	for i := 0; i+1 < len(kv); i += 2 {
		st.Set(kv[i], kv[i+1])
	}
	SetStyleOf(n, st)
}

// RemoveStyle removes inline style properties of n.
func RemoveStyle(n *html.Node, props ...string) {
	st := StyleOf(n)
	st.Remove(props...)
	SetStyleOf(n, st)
}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true,
	"solid": true, "double": true, "groove": true, "ridge": true,
	"inset": true, "outset": true,
}

// IsBorderStyle reports whether v is a CSS border-style keyword.
func IsBorderStyle(v string) bool {
	return borderStyles[strings.ToLower(v)]
}

// ExpandBorder rewrites a "border" shorthand on st into the width, style
// and color longhands. Longhands already present win over the shorthand.
func ExpandBorder(st *Style) {
	short := st.Get("border")
	if short == "" {
		return
	}
	st.Remove("border")
	var width, style, color string
	for _, tok := range splitCSSValue(short) {
		lower := strings.ToLower(tok)
		switch {
		case IsBorderStyle(lower):
			style = lower
		case lower == "thin" || lower == "medium" || lower == "thick" ||
			(len(lower) > 0 && (lower[0] >= '0' && lower[0] <= '9' || lower[0] == '.')):
			width = lower
		default:
			color = tok
		}
	}
	if width != "" && !st.Has("border-width") {
		st.Set("border-width", width)
	}
	if style != "" && !st.Has("border-style") {
		st.Set("border-style", style)
	}
	if color != "" && !st.Has("border-color") {
		st.Set("border-color", color)
	}
}

// splitCSSValue splits a value on whitespace, keeping parenthesised groups
// such as rgb(1, 2, 3) intact.
func splitCSSValue(v string) []string {
	var out []string
	var cur strings.Builder
	depth := 0
	for _, r := range v {
		switch {
		case r == '(':
			depth++
			cur.WriteRune(r)
		case r == ')':
			depth--
			cur.WriteRune(r)
		case (r == ' ' || r == '\t' || r == '\n') && depth == 0:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
