package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/object"
)

func TestObserverWrapsBareImages(t *testing.T) {
	e, _ := newTestEditor(t, `<p>x<img src="a.png">y</p>`)
	imgs := query(t, e, "//img")
	if len(imgs) != 1 {
		t.Fatalf("images = %d", len(imgs))
	}
	o, ok := object.Enclosing(imgs[0], e.Root())
	if !ok || o.Kind() != object.KindImage {
		t.Fatal("bare image should be wrapped in an image object")
	}
	if dom.Attr(o.Node(), "contenteditable") != "false" || o.ID() == "" {
		t.Errorf("wrapper = %s", dom.OuterHTML(o.Node()))
	}
	if got := dom.TextContent(query(t, e, "//p")[0]); got != "xy" {
		t.Errorf("text = %q", got)
	}
}

func TestObserverAdoptsTables(t *testing.T) {
	e, _ := newTestEditor(t, `<table><tbody><tr><td>1</td></tr></tbody></table>`)
	objs := e.Registry().Objects()
	if len(objs) != 1 || objs[0].Kind() != object.KindTable {
		t.Fatalf("objects = %v", objs)
	}
	if got := strings.Join(blockOutline(e), ","); got != "table,p:" {
		t.Errorf("blocks = %s, want the table followed by a trailer", got)
	}
}

func TestObserverStripsStaleDecorations(t *testing.T) {
	stale := `<table data-object="table" data-object-id="t1" data-active="true" data-positioned="true" style="position: relative;">` +
		`<tbody><tr><td>1</td></tr></tbody><div data-handle="drag"></div></table><p><br/></p>`
	e, _ := newTestEditor(t, stale)

	if handleCount(e) != 0 || activeMarkers(e) != 0 {
		t.Errorf("stale decorations survived: %s", e.RenderHTML())
	}
	if strings.Contains(e.GetHTML(), "position") {
		t.Errorf("positioning context survived: %s", e.GetHTML())
	}
	if e.Registry().Active() != nil {
		t.Error("loading content must not activate anything")
	}
}

func TestObserverReplacesDuplicateIDs(t *testing.T) {
	doc := `<table data-object="table" data-object-id="dup"><tbody><tr><td>1</td></tr></tbody></table><p><br/></p>` +
		`<table data-object="table" data-object-id="dup"><tbody><tr><td>2</td></tr></tbody></table><p><br/></p>`
	e, _ := newTestEditor(t, doc)

	objs := e.Registry().Objects()
	if len(objs) != 2 {
		t.Fatalf("objects = %d", len(objs))
	}
	if objs[0].ID() == objs[1].ID() {
		t.Error("object ids must be unique")
	}
	if objs[0].ID() != "dup" {
		t.Errorf("first id = %q, the first occurrence keeps its id", objs[0].ID())
	}
}

func TestObserveInputRecordsOneChange(t *testing.T) {
	e, rec := newTestEditor(t, "<p>a</p>")

	if err := e.ObserveInput("<p>ab</p>"); err != nil {
		t.Fatalf("ObserveInput: %v", err)
	}
	if rec.count("contentChanged") != 1 || e.History().UndoCount() != 2 {
		t.Errorf("events = %v, undo = %d", rec.names, e.History().UndoCount())
	}

	rec.reset()
	if err := e.ObserveInput("<p>ab</p>"); err != nil {
		t.Fatalf("ObserveInput: %v", err)
	}
	if len(rec.names) != 0 {
		t.Errorf("unchanged input published %v", rec.names)
	}

	if err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := e.GetHTML(); got != "<p>a</p>" {
		t.Errorf("after undo = %q", got)
	}
}

func TestObserveInputKeepsSurvivingActiveObject(t *testing.T) {
	e, rec := newTestEditor(t, "<p>a</p>")
	if err := e.InsertTextBox(); err != nil {
		t.Fatalf("InsertTextBox: %v", err)
	}
	id := e.Registry().Active().ID()
	rec.reset()

	edited := strings.Replace(e.GetHTML(), "<p>a</p>", "<p>abc</p>", 1)
	if err := e.ObserveInput(edited); err != nil {
		t.Fatalf("ObserveInput: %v", err)
	}
	active := e.Registry().Active()
	if active == nil || active.ID() != id {
		t.Fatal("the active object should survive a text edit elsewhere")
	}
	if handleCount(e) != 2 {
		t.Errorf("handles = %d, want 2", handleCount(e))
	}
	if rec.count("objectDeselected") != 0 {
		t.Errorf("events = %v", rec.names)
	}
}

func TestObserveInputDropsDeletedActiveObject(t *testing.T) {
	e, rec := newTestEditor(t, "<p>a</p>")
	if err := e.InsertTextBox(); err != nil {
		t.Fatalf("InsertTextBox: %v", err)
	}
	rec.reset()

	if err := e.ObserveInput("<p>a</p>"); err != nil {
		t.Fatalf("ObserveInput: %v", err)
	}
	if e.Registry().Active() != nil {
		t.Error("removed object is still active")
	}
	if rec.count("objectDeselected") != 1 || rec.count("contentChanged") != 1 {
		t.Errorf("events = %v", rec.names)
	}
}

func TestPasteInline(t *testing.T) {
	e, _ := newTestEditor(t, "<p>ad</p>")
	caretInText(t, e, "ad", 1)
	if err := e.Paste("b<i>c</i>"); err != nil {
		t.Fatalf("Paste: %v", err)
	}
	if got := e.GetHTML(); got != "<p>ab<i>c</i>d</p>" {
		t.Errorf("GetHTML() = %q", got)
	}
}

func TestPasteBlocksAdoptsObjects(t *testing.T) {
	e, rec := newTestEditor(t, "<p>a</p>")
	err := e.Paste(`<p>b</p><table><tr><td>x</td></tr></table><img src="p.png">`)
	if err != nil {
		t.Fatalf("Paste: %v", err)
	}
	kinds := map[object.Kind]int{}
	for _, o := range e.Registry().Objects() {
		kinds[o.Kind()]++
	}
	if kinds[object.KindTable] != 1 || kinds[object.KindImage] != 1 {
		t.Errorf("objects = %v", kinds)
	}
	outline := blockOutline(e)
	if outline[0] != "p:a" || outline[1] != "p:b" || outline[2] != "table" || outline[3] != "p:" {
		t.Errorf("blocks = %v", outline)
	}
	if rec.count("contentChanged") != 1 {
		t.Errorf("events = %v", rec.names)
	}
}

func TestPasteEmpty(t *testing.T) {
	e, _ := newTestEditor(t, "<p>a</p>")
	if err := e.Paste("<!-- nothing -->"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Paste = %v, want ErrInvalidArgument", err)
	}
}
