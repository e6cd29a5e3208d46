package editor

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/object"
)

func TestInsertTableWithHeader(t *testing.T) {
	e, rec := newTestEditor(t, "<p>Hello</p>")

	err := e.InsertTable(TableSpec{Rows: 3, Cols: 3, HasHeader: true, BorderWidth: 1, Width: "100%"})
	if err != nil {
		t.Fatalf("InsertTable: %v", err)
	}

	tables := query(t, e, "//table")
	if len(tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(tables))
	}
	rows := object.Rows(tables[0])
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i, r := range rows {
		cells := object.Cells(r)
		if len(cells) != 3 {
			t.Fatalf("row %d has %d cells", i, len(cells))
		}
		for _, c := range cells {
			if got, want := object.IsHeaderCell(c), i == 0; got != want {
				t.Errorf("row %d: header cell = %v, want %v", i, got, want)
			}
		}
	}
	if got := dom.GetStyle(tables[0], "width"); got != "100%" {
		t.Errorf("width = %q", got)
	}

	trailer := nextElement(tables[0])
	if !isTrailer(trailer) {
		t.Errorf("table must be followed by an empty paragraph, got %s", dom.OuterHTML(trailer))
	}
	if sel, ok := e.Selection(); !ok || sel.Start.Node != trailer {
		t.Error("caret should be inside the trailing paragraph")
	}

	if got := rec.count("contentChanged"); got != 1 {
		t.Errorf("contentChanged = %d, want 1", got)
	}
	if got := rec.count("objectSelected"); got != 1 {
		t.Fatalf("objectSelected = %d, want 1", got)
	}
	if rec.selected[0].Kind != object.KindTable {
		t.Errorf("selected kind = %q", rec.selected[0].Kind)
	}
}

func TestTableSpecNormalized(t *testing.T) {
	tests := []struct {
		in   TableSpec
		want TableSpec
	}{
		{TableSpec{}, TableSpec{Rows: 1, Cols: 1, Width: "auto"}},
		{TableSpec{Rows: 500, Cols: -2, BorderWidth: 9, Width: "33%"}, TableSpec{Rows: 100, Cols: 1, BorderWidth: 5, Width: "auto"}},
		{TableSpec{Rows: 2, Cols: 2, Width: " 50% "}, TableSpec{Rows: 2, Cols: 2, Width: "50%"}},
	}
	for _, tt := range tests {
		if got := tt.in.normalized(); got != tt.want {
			t.Errorf("normalized(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestInsertTableWithoutBorder(t *testing.T) {
	e, _ := newTestEditor(t, "<p>a</p>")
	if err := e.InsertTable(TableSpec{Rows: 1, Cols: 2}); err != nil {
		t.Fatalf("InsertTable: %v", err)
	}
	for _, c := range query(t, e, "//td") {
		if got := dom.GetStyle(c, "border-style"); got != "none" {
			t.Errorf("border-style = %q, want none", got)
		}
	}
}

func TestInsertPlacement(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		caret  string
		offset int
		want   []string
	}{
		{"end of paragraph", "<p>A</p><p>B</p>", "A", 1, []string{"p:A", "table", "p:", "p:B"}},
		{"start of paragraph", "<p>A</p><p>B</p>", "B", 0, []string{"p:A", "table", "p:", "p:B"}},
		{"middle of paragraph", "<p>AB</p>", "AB", 1, []string{"p:AB", "table", "p:"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEditor(t, tt.doc)
			caretInText(t, e, tt.caret, tt.offset)
			if err := e.InsertTable(TableSpec{Rows: 1, Cols: 1}); err != nil {
				t.Fatalf("InsertTable: %v", err)
			}
			if got := blockOutline(e); strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("blocks = %v, want %v", got, tt.want)
			}
		})
	}
}

// blockOutline describes the top-level blocks as tag or tag:text.
func blockOutline(e *Editor) []string {
	var out []string
	for _, c := range dom.ElementChildren(e.Root()) {
		if dom.IsElement(c, "p") {
			out = append(out, "p:"+strings.TrimSpace(dom.TextContent(c)))
			continue
		}
		out = append(out, c.Data)
	}
	return out
}

func TestInsertInsideActiveTableGoesAfterIt(t *testing.T) {
	e, _ := newTestEditor(t, "<p>A</p>")
	if err := e.InsertTable(TableSpec{Rows: 1, Cols: 1}); err != nil {
		t.Fatalf("InsertTable: %v", err)
	}
	cell := query(t, e, "//td")[0]
	if err := e.SetSelection(dom.Collapsed(dom.StartOf(cell))); err != nil {
		t.Fatalf("SetSelection: %v", err)
	}
	if err := e.InsertTextBox(); err != nil {
		t.Fatalf("InsertTextBox: %v", err)
	}
	if nested := dom.MustQueryAll(cell, ".//table"); len(nested) != 0 {
		t.Fatalf("objects must not nest, found %d tables in the cell", len(nested))
	}
	got := blockOutline(e)
	want := []string{"p:A", "table", "p:", "table", "p:"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("blocks = %v, want %v", got, want)
	}
}

func TestInsertTextBox(t *testing.T) {
	e, rec := newTestEditor(t, "<p>a</p>")
	if err := e.InsertTextBox(); err != nil {
		t.Fatalf("InsertTextBox: %v", err)
	}
	boxes := dom.FindAll(e.Root(), func(n *html.Node) bool {
		k, ok := object.KindOf(n)
		return ok && k == object.KindTextBox
	})
	if len(boxes) != 1 {
		t.Fatalf("text boxes = %d, want 1", len(boxes))
	}
	if n := len(object.AllCells(boxes[0])); n != 1 {
		t.Errorf("text box cells = %d, want 1", n)
	}
	if got := dom.GetStyle(boxes[0], "border-radius"); got != "8px" {
		t.Errorf("border-radius = %q", got)
	}
	if rec.count("objectSelected") != 1 || rec.selected[0].Kind != object.KindTextBox {
		t.Errorf("selection events = %+v", rec.selected)
	}
}

func TestInsertImage(t *testing.T) {
	e, rec := newTestEditor(t, "<p>Hello</p>")
	caretInText(t, e, "Hello", 2)

	if err := e.InsertImage("cat.png", "a cat", 120, 0); err != nil {
		t.Fatalf("InsertImage: %v", err)
	}
	p := query(t, e, "//p")[0]
	if got := dom.TextContent(p); got != "Hello" {
		t.Errorf("paragraph text = %q", got)
	}
	wrappers := dom.ElementChildren(p, "span")
	if len(wrappers) != 1 {
		t.Fatalf("wrappers = %d, want 1", len(wrappers))
	}
	w := wrappers[0]
	if k, _ := object.KindOf(w); k != object.KindImage {
		t.Errorf("wrapper kind = %q", k)
	}
	if dom.Attr(w, "contenteditable") != "false" {
		t.Error("image wrapper must not be editable")
	}
	if w.PrevSibling == nil || w.PrevSibling.Data != "He" {
		t.Error("image should split the text at the caret")
	}
	img := dom.ElementChildren(w, "img")[0]
	if dom.Attr(img, "width") != "120" || dom.HasAttr(img, "height") {
		t.Errorf("img attrs = %v", img.Attr)
	}
	if p, ok := e.Active(); !ok || p.Src != "cat.png" || p.Alt != "a cat" {
		t.Errorf("active = %+v", p)
	}
	if rec.count("contentChanged") != 1 {
		t.Errorf("contentChanged = %d", rec.count("contentChanged"))
	}
}

func TestInsertImageRejectsEmptySource(t *testing.T) {
	e, rec := newTestEditor(t, "<p>a</p>")
	before := e.GetHTML()

	err := e.InsertImage("  ", "", 0, 0)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if e.GetHTML() != before || len(rec.names) != 0 {
		t.Error("a refused insertion must not change anything")
	}
}

func TestInsertThenDeleteRestoresDocument(t *testing.T) {
	inserts := map[string]func(e *Editor) error{
		"table": func(e *Editor) error {
			return e.InsertTable(TableSpec{Rows: 2, Cols: 2, HasHeader: true, BorderWidth: 1})
		},
		"textbox": func(e *Editor) error { return e.InsertTextBox() },
		"image":   func(e *Editor) error { return e.InsertImage("a.png", "", 0, 0) },
	}
	docs := []string{"<p>Hello</p>", "<p>Hello</p><p>World</p>", "<h1>Hello</h1><p>x</p>"}

	for name, insert := range inserts {
		for _, doc := range docs {
			t.Run(name+" "+doc, func(t *testing.T) {
				e, _ := newTestEditor(t, doc)
				caretInText(t, e, "Hello", 2)
				before := dom.NormalizeWhitespace(e.GetHTML())

				if err := insert(e); err != nil {
					t.Fatalf("insert: %v", err)
				}
				if err := e.DeleteObject(); err != nil {
					t.Fatalf("DeleteObject: %v", err)
				}
				if got := dom.NormalizeWhitespace(e.GetHTML()); got != before {
					t.Errorf("after delete = %q, want %q", got, before)
				}
			})
		}
	}
}

func TestDeleteObjectEvents(t *testing.T) {
	e, rec := newTestEditor(t, "<p>a</p>")
	if err := e.InsertTextBox(); err != nil {
		t.Fatalf("InsertTextBox: %v", err)
	}
	rec.reset()

	if err := e.DeleteObject(); err != nil {
		t.Fatalf("DeleteObject: %v", err)
	}
	want := []string{"objectDeselected", "objectDeleted", "contentChanged"}
	if strings.Join(rec.names, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", rec.names, want)
	}
	if err := e.DeleteObject(); !errors.Is(err, ErrNoActiveObject) {
		t.Errorf("second delete = %v, want ErrNoActiveObject", err)
	}
}

func TestDeleteKeepsEditedTrailer(t *testing.T) {
	e, _ := newTestEditor(t, "<p>a</p>")
	if err := e.InsertTextBox(); err != nil {
		t.Fatalf("InsertTextBox: %v", err)
	}
	sel, _ := e.Selection()
	trailer := sel.Start.Node
	dom.RemoveChildren(trailer)
	trailer.AppendChild(dom.NewText("typed"))

	if err := e.DeleteObject(); err != nil {
		t.Fatalf("DeleteObject: %v", err)
	}
	if got := e.GetHTML(); got != "<p>a</p><p>typed</p>" {
		t.Errorf("GetHTML() = %q", got)
	}
}
