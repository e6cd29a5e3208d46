package editor

import (
	"unicode/utf8"

	"github.com/dshills/richedit/internal/dom"
)

// Key names reported by the host.
const (
	KeyTab       = "Tab"
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
	KeyEscape    = "Escape"
)

// KeyEvent is a keydown reported by the host.
type KeyEvent struct {
	Key   string `json:"key"`
	Shift bool   `json:"shift"`
	Ctrl  bool   `json:"ctrl"`
	Alt   bool   `json:"alt"`
	Meta  bool   `json:"meta"`
}

// printable reports whether the key produces text.
func (k KeyEvent) printable() bool {
	return utf8.RuneCountInString(k.Key) == 1 && !k.Ctrl && !k.Meta
}

// KeyResult tells the host whether to suppress the native key action.
type KeyResult struct {
	PreventDefault bool `json:"preventDefault"`
}

// KeyDown handles a keydown. Tab and Shift+Tab insert a tab span and keep
// focus in the editor. Typing, Delete and Backspace release the active
// object so the keystroke edits text rather than the object.
func (e *Editor) KeyDown(ev KeyEvent) KeyResult {
	switch {
	case ev.Key == KeyTab && !ev.Ctrl && !ev.Alt && !ev.Meta:
		e.insertTab()
		return KeyResult{PreventDefault: true}
	case ev.Key == KeyEscape:
		e.cancelGesture()
		e.deactivate()
	case ev.printable() || ev.Key == KeyDelete || ev.Key == KeyBackspace:
		if e.registry.Active() != nil {
			e.cancelGesture()
			e.deactivate()
		}
	}
	return KeyResult{}
}

func (e *Editor) insertTab() {
	span := dom.NewElement("span",
		"class", "editor-tab",
		"style", "white-space: pre;",
	)
	span.AppendChild(dom.NewText("\t"))
	e.insertInline(span)
	e.commit("tab")
}
