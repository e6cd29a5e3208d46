package editor

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/object"
)

func activeMarkers(e *Editor) int {
	return len(dom.FindAll(e.Root(), func(n *html.Node) bool {
		return dom.IsElement(n) && dom.HasAttr(n, object.AttrActive)
	}))
}

func handleCount(e *Editor) int {
	return len(dom.FindAll(e.Root(), object.IsHandle))
}

func TestFloatingDragMovesByDelta(t *testing.T) {
	e, rec := newTestEditor(t, "<p>Hello</p>")
	if err := e.InsertTable(TableSpec{Rows: 2, Cols: 2, Width: "100%"}); err != nil {
		t.Fatalf("InsertTable: %v", err)
	}
	if err := e.SetAlignment("floating"); err != nil {
		t.Fatalf("SetAlignment: %v", err)
	}
	start, _ := e.Active()
	rec.reset()

	drag := e.Registry().Handle(object.HandleDrag)
	res := e.PointerDown(PointerEvent{Target: drag, X: 100, Y: 100})
	if !res.Captured || e.PointerMode() != PointerDragging {
		t.Fatalf("PointerDown = %+v, mode %s", res, e.PointerMode())
	}
	e.PointerMove(PointerEvent{X: 120, Y: 130})
	e.PointerMove(PointerEvent{X: 140, Y: 160})
	e.PointerUp(PointerEvent{X: 140, Y: 160})

	end, _ := e.Active()
	if end.X != start.X+40 || end.Y != start.Y+60 {
		t.Errorf("moved to (%v,%v), want (%v,%v)", end.X, end.Y, start.X+40, start.Y+60)
	}
	if e.PointerMode() != PointerIdle {
		t.Errorf("mode after up = %s", e.PointerMode())
	}
	if rec.count("contentChanged") != 1 || rec.count("objectPropertiesChanged") != 1 {
		t.Errorf("events = %v", rec.names)
	}
	if !e.History().CanUndo() {
		t.Error("drag should be undoable")
	}
}

func TestFlowDragReorders(t *testing.T) {
	e, _ := newTestEditor(t, "<p>A</p><p>B</p>")
	caretInText(t, e, "A", 1)
	if err := e.InsertTable(TableSpec{Rows: 1, Cols: 1}); err != nil {
		t.Fatalf("InsertTable: %v", err)
	}
	drag := e.Registry().Handle(object.HandleDrag)

	e.PointerDown(PointerEvent{Target: drag, X: 0, Y: 0})
	e.PointerMove(PointerEvent{X: 0, Y: 10})
	if got := strings.Join(blockOutline(e), ","); got != "p:A,table,p:,p:B" {
		t.Fatalf("moved below threshold: %s", got)
	}
	e.PointerMove(PointerEvent{X: 0, Y: 40})
	e.PointerUp(PointerEvent{X: 0, Y: 40})
	if got := strings.Join(blockOutline(e), ","); got != "p:A,p:B,table,p:" {
		t.Errorf("after drag down: %s", got)
	}

	e.PointerDown(PointerEvent{Target: drag, X: 0, Y: 40})
	e.PointerMove(PointerEvent{X: 0, Y: 0})
	e.PointerMove(PointerEvent{X: 0, Y: -40})
	e.PointerUp(PointerEvent{X: 0, Y: -40})
	if got := strings.Join(blockOutline(e), ","); got != "table,p:,p:A,p:B" {
		t.Errorf("after drag up twice: %s", got)
	}
}

func TestResizeHonorsMinimumWidth(t *testing.T) {
	e, _ := newTestEditor(t, "<p>a</p>")
	if err := e.InsertTable(TableSpec{Rows: 1, Cols: 1}); err != nil {
		t.Fatalf("InsertTable: %v", err)
	}
	o := e.Registry().Active()
	e.ReportBounds(o.ID(), object.Rect{Width: 300, Height: 80})
	resize := e.Registry().Handle(object.HandleResize)

	e.PointerDown(PointerEvent{Target: resize, X: 300, Y: 80})
	if e.PointerMode() != PointerResizing {
		t.Fatalf("mode = %s", e.PointerMode())
	}
	e.PointerMove(PointerEvent{X: 360.4, Y: 80})
	if got := dom.GetStyle(o.Node(), "width"); got != "360px" {
		t.Errorf("width = %q, want 360px", got)
	}
	e.PointerMove(PointerEvent{X: -1000, Y: 80})
	e.PointerUp(PointerEvent{})
	if got := dom.GetStyle(o.Node(), "width"); got != "50px" {
		t.Errorf("width = %q, want 50px", got)
	}
}

func TestResizeImageKeepsAspect(t *testing.T) {
	e, _ := newTestEditor(t, "<p>Hello</p>")
	if err := e.InsertImage("a.png", "", 200, 100); err != nil {
		t.Fatalf("InsertImage: %v", err)
	}
	img := e.Registry().Active().(*object.Image).Img()
	resize := e.Registry().Handle(object.HandleResize)

	e.PointerDown(PointerEvent{Target: resize, X: 0, Y: 0})
	e.PointerMove(PointerEvent{X: -50, Y: 0})
	e.PointerUp(PointerEvent{})

	if got := dom.GetStyle(img, "width"); got != "150px" {
		t.Errorf("img width = %q, want 150px", got)
	}
	if dom.GetStyle(img, "height") != "auto" || dom.HasAttr(img, "width") {
		t.Errorf("img = %s", dom.OuterHTML(img))
	}
}

func TestClickActivatesSingleObject(t *testing.T) {
	e, rec := newTestEditor(t, "<p>a</p>")
	if err := e.InsertTable(TableSpec{Rows: 1, Cols: 1}); err != nil {
		t.Fatalf("InsertTable: %v", err)
	}
	first := e.Registry().Active()
	if err := e.InsertTextBox(); err != nil {
		t.Fatalf("InsertTextBox: %v", err)
	}
	if activeMarkers(e) != 1 || handleCount(e) != 2 {
		t.Fatalf("markers = %d, handles = %d", activeMarkers(e), handleCount(e))
	}
	rec.reset()

	cell := object.AllCells(first.Node())[0]
	res := e.PointerDown(PointerEvent{Target: cell})
	if res.Captured {
		t.Error("a click inside an object is not captured")
	}
	if !e.Registry().IsActive(first) {
		t.Fatal("clicked object should become active")
	}
	if activeMarkers(e) != 1 || handleCount(e) != 2 {
		t.Errorf("markers = %d, handles = %d", activeMarkers(e), handleCount(e))
	}
	if strings.Join(rec.names, ",") != "objectDeselected,objectSelected" {
		t.Errorf("switching objects published %v", rec.names)
	}

	// Clicking the active object again is silent.
	rec.reset()
	e.PointerDown(PointerEvent{Target: cell})
	if len(rec.names) != 0 {
		t.Errorf("re-activation published %v", rec.names)
	}
}

func TestClickOutsideDeactivates(t *testing.T) {
	for _, ev := range []PointerEvent{{Outside: true}, {Target: nil}} {
		e, rec := newTestEditor(t, "<p>a</p>")
		if err := e.InsertTable(TableSpec{Rows: 1, Cols: 1}); err != nil {
			t.Fatalf("InsertTable: %v", err)
		}
		rec.reset()
		e.PointerDown(ev)
		if e.Registry().Active() != nil || handleCount(e) != 0 || activeMarkers(e) != 0 {
			t.Errorf("%+v: object still active", ev)
		}
		if rec.count("objectDeselected") != 1 {
			t.Errorf("%+v: events = %v", ev, rec.names)
		}
		if strings.Contains(e.RenderHTML(), "position: relative") {
			t.Errorf("%+v: positioning context left behind", ev)
		}
	}
}

func TestNewGestureCommitsPrevious(t *testing.T) {
	e, rec := newTestEditor(t, "<p>a</p>")
	if err := e.InsertTable(TableSpec{Rows: 1, Cols: 1}); err != nil {
		t.Fatalf("InsertTable: %v", err)
	}
	resize := e.Registry().Handle(object.HandleResize)
	e.PointerDown(PointerEvent{Target: resize, X: 0, Y: 0})
	e.PointerMove(PointerEvent{X: -20, Y: 0})
	rec.reset()

	e.PointerDown(PointerEvent{Target: resize, X: 0, Y: 0})
	if rec.count("contentChanged") != 1 {
		t.Errorf("interrupted resize should commit once, events = %v", rec.names)
	}
	if e.PointerMode() != PointerResizing {
		t.Errorf("mode = %s", e.PointerMode())
	}
}

func TestPointerUpEscapesCaret(t *testing.T) {
	e, _ := newTestEditor(t, "<p>Hello</p>")
	caretInText(t, e, "Hello", 5)
	if err := e.InsertImage("a.png", "", 0, 0); err != nil {
		t.Fatalf("InsertImage: %v", err)
	}
	w := e.Registry().Active().Node()
	img := dom.ElementChildren(w, "img")[0]
	if err := e.SetSelection(dom.Collapsed(dom.Position{Node: img, Offset: 0})); err != nil {
		t.Fatalf("SetSelection: %v", err)
	}

	e.PointerUp(PointerEvent{Target: img})
	sel, ok := e.Selection()
	if !ok {
		t.Fatal("selection lost")
	}
	if sel.Start.Node != w.Parent || sel.Start.Offset != dom.Index(w)+1 {
		t.Errorf("caret = %v/%d, want right after the image", sel.Start.Node.Data, sel.Start.Offset)
	}
}

func TestCaretInHandleEscapesToTrailer(t *testing.T) {
	e, _ := newTestEditor(t, "<p>a</p>")
	if err := e.InsertTable(TableSpec{Rows: 1, Cols: 1}); err != nil {
		t.Fatalf("InsertTable: %v", err)
	}
	table := e.Registry().Active().Node()
	drag := e.Registry().Handle(object.HandleDrag)
	if err := e.SetSelection(dom.Collapsed(dom.StartOf(drag))); err != nil {
		t.Fatalf("SetSelection: %v", err)
	}
	e.PointerUp(PointerEvent{})
	sel, _ := e.Selection()
	if sel.Start.Node != nextElement(table) {
		t.Errorf("caret should move into the trailer, got <%s>", sel.Start.Node.Data)
	}
}

func TestTabInsertsTabSpan(t *testing.T) {
	e, rec := newTestEditor(t, "<p>ab</p>")
	caretInText(t, e, "ab", 1)

	for _, shift := range []bool{false, true} {
		res := e.KeyDown(KeyEvent{Key: KeyTab, Shift: shift})
		if !res.PreventDefault {
			t.Errorf("shift=%v: Tab must keep focus in the editor", shift)
		}
	}
	tabs := dom.FindAll(e.Root(), func(n *html.Node) bool { return dom.HasClass(n, "editor-tab") })
	if len(tabs) != 2 {
		t.Fatalf("tab spans = %d, want 2", len(tabs))
	}
	if tabs[0].FirstChild.Data != "\t" || dom.GetStyle(tabs[0], "white-space") != "pre" {
		t.Errorf("tab span = %s", dom.OuterHTML(tabs[0]))
	}
	if got := dom.TextContent(query(t, e, "//p")[0]); got != "a\t\tb" {
		t.Errorf("text = %q", got)
	}
	if rec.count("contentChanged") != 2 {
		t.Errorf("events = %v", rec.names)
	}
}

func TestKeysReleaseActiveObject(t *testing.T) {
	keys := []KeyEvent{{Key: "x"}, {Key: KeyDelete}, {Key: KeyBackspace}, {Key: KeyEscape}}
	for _, k := range keys {
		e, rec := newTestEditor(t, "<p>a</p>")
		if err := e.InsertTextBox(); err != nil {
			t.Fatalf("InsertTextBox: %v", err)
		}
		rec.reset()
		if res := e.KeyDown(k); res.PreventDefault {
			t.Errorf("%s: native action must not be suppressed", k.Key)
		}
		if e.Registry().Active() != nil || handleCount(e) != 0 {
			t.Errorf("%s: object still active", k.Key)
		}
		if rec.count("objectDeselected") != 1 {
			t.Errorf("%s: events = %v", k.Key, rec.names)
		}
	}
}

func TestShortcutsKeepActiveObject(t *testing.T) {
	e, _ := newTestEditor(t, "<p>a</p>")
	if err := e.InsertTextBox(); err != nil {
		t.Fatalf("InsertTextBox: %v", err)
	}
	e.KeyDown(KeyEvent{Key: "c", Ctrl: true})
	e.KeyDown(KeyEvent{Key: "ArrowDown"})
	if e.Registry().Active() == nil {
		t.Error("non-text keys must not release the object")
	}
}
