package editor

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/object"
	"github.com/dshills/richedit/internal/theme"
)

// attrSavedBorderColor keeps the color replaced by a transparent border.
const attrSavedBorderColor = "data-border-color"

// Scope selects which elements a border command styles.
type Scope string

const (
	ScopeOutline  Scope = "table-outline"
	ScopeAllCells Scope = "all-cells"
)

// ParseScope validates a scope name. The empty string means the outline.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeOutline:
		return ScopeOutline, nil
	case ScopeAllCells:
		return ScopeAllCells, nil
	}
	return "", fmt.Errorf("%w: scope %q", ErrInvalidArgument, s)
}

// borderTargets returns the active table-shaped object and the elements
// selected by scope.
func (e *Editor) borderTargets(scope Scope) ([]*html.Node, error) {
	o, err := e.activeTable(false)
	if err != nil {
		return nil, err
	}
	if scope == ScopeAllCells {
		return object.AllCells(o.Node()), nil
	}
	return []*html.Node{o.Node()}, nil
}

// updateBorders applies fn to the expanded style of every target.
func updateBorders(targets []*html.Node, fn func(n *html.Node, st *dom.Style)) {
	for _, n := range targets {
		st := dom.StyleOf(n)
		dom.ExpandBorder(st)
		fn(n, st)
		dom.SetStyleOf(n, st)
	}
}

func borderWidth(st *dom.Style) int {
	w, ok := object.ParsePx(st.Get("border-width"))
	if !ok {
		return 0
	}
	return int(w)
}

// SetBorderStyle sets the border style. "none" forces the width to zero.
func (e *Editor) SetBorderStyle(style string, scope Scope) error {
	style = strings.ToLower(strings.TrimSpace(style))
	if !dom.IsBorderStyle(style) {
		return fmt.Errorf("%w: border style %q", ErrInvalidArgument, style)
	}
	targets, err := e.borderTargets(scope)
	if err != nil {
		return err
	}
	updateBorders(targets, func(_ *html.Node, st *dom.Style) {
		st.Set("border-style", style)
		if style == "none" {
			st.Set("border-width", "0px")
		}
	})
	e.commitActive("setBorderStyle")
	return nil
}

// SetBorderWidth sets the border width in pixels. A positive width on a
// border without a visible style promotes the style to solid.
func (e *Editor) SetBorderWidth(width int, scope Scope) error {
	if width < 0 {
		return fmt.Errorf("%w: border width %d", ErrInvalidArgument, width)
	}
	width = clamp(width, 0, MaxBorderWidth)
	targets, err := e.borderTargets(scope)
	if err != nil {
		return err
	}
	updateBorders(targets, func(_ *html.Node, st *dom.Style) {
		st.Set("border-width", px(width))
		if s := st.Get("border-style"); width > 0 && (s == "" || s == "none" || s == "hidden") {
			st.Set("border-style", "solid")
		}
	})
	e.commitActive("setBorderWidth")
	return nil
}

// SetBorderColor sets the border color and ends a transparent border.
func (e *Editor) SetBorderColor(color string, scope Scope) error {
	c, err := theme.ParseColor(color)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	targets, err := e.borderTargets(scope)
	if err != nil {
		return err
	}
	updateBorders(targets, func(n *html.Node, st *dom.Style) {
		st.Set("border-color", c.Hex())
		dom.RemoveAttr(n, attrSavedBorderColor)
	})
	e.commitActive("setBorderColor")
	return nil
}

// SetTransparentBorder hides or restores the border color. The previous
// color is remembered while the border is transparent.
func (e *Editor) SetTransparentBorder(enabled bool, scope Scope) error {
	targets, err := e.borderTargets(scope)
	if err != nil {
		return err
	}
	fallback := e.probe.Palette().Border
	updateBorders(targets, func(n *html.Node, st *dom.Style) {
		current := st.Get("border-color")
		if enabled {
			if current == "transparent" {
				return
			}
			if current == "" {
				current = fallback
			}
			dom.SetAttr(n, attrSavedBorderColor, current)
			st.Set("border-color", "transparent")
			return
		}
		if current != "transparent" {
			return
		}
		saved := dom.Attr(n, attrSavedBorderColor)
		if saved == "" {
			saved = fallback
		}
		st.Set("border-color", saved)
		dom.RemoveAttr(n, attrSavedBorderColor)
	})
	e.commitActive("setTransparentBorder")
	return nil
}
