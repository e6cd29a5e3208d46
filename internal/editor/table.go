package editor

import (
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/object"
)

// activeObject returns the active object or ErrNoActiveObject.
func (e *Editor) activeObject() (object.Object, error) {
	o := e.registry.Active()
	if o == nil {
		return nil, ErrNoActiveObject
	}
	return o, nil
}

// activeTable returns the active object when it is table-shaped.
// With gridOnly, text boxes are rejected.
func (e *Editor) activeTable(gridOnly bool) (object.Object, error) {
	o, err := e.activeObject()
	if err != nil {
		return nil, err
	}
	switch o.Kind() {
	case object.KindTable:
		return o, nil
	case object.KindTextBox:
		if !gridOnly {
			return o, nil
		}
	}
	return nil, ErrUnsupported
}

// cloneCell creates an empty cell styled like ref, keeping its header kind.
func cloneCell(ref *html.Node) *html.Node {
	tag := "td"
	if object.IsHeaderCell(ref) {
		tag = "th"
	}
	c := dom.NewElement(tag)
	for _, a := range ref.Attr {
		switch a.Key {
		case "colspan", "rowspan", "id":
			continue
		}
		c.Attr = append(c.Attr, a)
	}
	c.AppendChild(dom.NewLineBreak())
	return c
}

// insertIndex resolves the index of a new row or column: the explicit
// position clamped to [0, n], after the caret's row or column, or n.
func insertIndex(pos *int, current int, hasCurrent bool, n int) int {
	switch {
	case pos != nil:
		return clamp(*pos, 0, n)
	case hasCurrent:
		return current + 1
	}
	return n
}

// deleteIndex resolves the index of a row or column to delete. Out of range
// indexes and a missing caret fall back to the last one.
func deleteIndex(idx *int, current int, hasCurrent bool, n int) int {
	switch {
	case idx != nil && *idx >= 0 && *idx < n:
		return *idx
	case idx == nil && hasCurrent:
		return current
	}
	return n - 1
}

// AddRow inserts a row so that it ends up at index pos. Without pos the
// row goes after the caret's row, or at the end.
func (e *Editor) AddRow(pos *int) error {
	o, err := e.activeTable(true)
	if err != nil {
		return err
	}
	table := o.Node()
	rows := object.Rows(table)
	if len(rows) == 0 {
		body := dom.NewElement("tbody")
		tr := dom.NewElement("tr")
		tr.AppendChild(dom.NewElement("td"))
		tr.FirstChild.AppendChild(dom.NewLineBreak())
		body.AppendChild(tr)
		table.InsertBefore(body, table.FirstChild)
		e.commitActive("addRow")
		return nil
	}

	_, cur, _, ok := e.caretCell(table)
	idx := insertIndex(pos, cur, ok, len(rows))

	ref := rows[len(rows)-1]
	if idx < len(rows) {
		ref = rows[idx]
	}
	tr := dom.NewElement("tr")
	for _, c := range object.Cells(ref) {
		tr.AppendChild(cloneCell(c))
	}
	if tr.FirstChild == nil {
		td := dom.NewElement("td")
		td.AppendChild(dom.NewLineBreak())
		tr.AppendChild(td)
	}
	if idx < len(rows) {
		dom.InsertBefore(rows[idx], tr)
	} else {
		dom.InsertAfter(rows[len(rows)-1], tr)
	}
	e.commitActive("addRow")
	return nil
}

// AddColumn inserts a column so that it ends up at index pos in every row.
// Without pos the column goes after the caret's column, or at the end.
func (e *Editor) AddColumn(pos *int) error {
	o, err := e.activeTable(true)
	if err != nil {
		return err
	}
	table := o.Node()
	rows := object.Rows(table)
	if len(rows) == 0 {
		return e.AddRow(nil)
	}

	_, _, cur, ok := e.caretCell(table)
	idx := insertIndex(pos, cur, ok, len(object.Cells(rows[0])))

	for _, r := range rows {
		cells := object.Cells(r)
		if len(cells) == 0 {
			td := dom.NewElement("td")
			td.AppendChild(dom.NewLineBreak())
			r.AppendChild(td)
			continue
		}
		if idx < len(cells) {
			dom.InsertBefore(cells[idx], cloneCell(cells[idx]))
		} else {
			last := cells[len(cells)-1]
			dom.InsertAfter(last, cloneCell(last))
		}
	}
	e.commitActive("addColumn")
	return nil
}

// DeleteRow removes the row at idx, the caret's row, or the last row.
// A table with a single row is left intact.
func (e *Editor) DeleteRow(idx *int) error {
	o, err := e.activeTable(true)
	if err != nil {
		return err
	}
	table := o.Node()
	rows := object.Rows(table)
	if len(rows) <= 1 {
		return ErrShapeConstraint
	}

	_, cur, _, ok := e.caretCell(table)
	i := deleteIndex(idx, cur, ok, len(rows))
	row := rows[i]
	e.moveCaretOff(row, rows, i)

	section := row.Parent
	dom.Detach(row)
	if section != table && len(dom.ElementChildren(section, "tr")) == 0 {
		dom.Detach(section)
	}
	e.commitActive("deleteRow")
	return nil
}

// DeleteColumn removes the column at idx, the caret's column, or the last
// column. A table with a single column is left intact.
func (e *Editor) DeleteColumn(idx *int) error {
	o, err := e.activeTable(true)
	if err != nil {
		return err
	}
	table := o.Node()
	rows := object.Rows(table)
	if len(rows) == 0 {
		return ErrShapeConstraint
	}
	cols := len(object.Cells(rows[0]))
	if cols <= 1 {
		return ErrShapeConstraint
	}

	_, _, cur, ok := e.caretCell(table)
	i := deleteIndex(idx, cur, ok, cols)
	for _, r := range rows {
		cells := object.Cells(r)
		if i >= len(cells) || len(cells) == 1 {
			continue
		}
		if sel, has := e.Selection(); has && dom.Contains(cells[i], sel.Start.Node) {
			nb := i - 1
			if nb < 0 {
				nb = i + 1
			}
			e.setCaret(dom.StartOf(cells[nb]))
		}
		dom.Detach(cells[i])
	}
	e.commitActive("deleteColumn")
	return nil
}

// moveCaretOff moves a caret inside a row about to be removed to the first
// cell of a neighbouring row.
func (e *Editor) moveCaretOff(row *html.Node, rows []*html.Node, i int) {
	sel, ok := e.Selection()
	if !ok || !dom.Contains(row, sel.Start.Node) && !dom.Contains(row, sel.End.Node) {
		return
	}
	nb := i - 1
	if nb < 0 {
		nb = i + 1
	}
	if cells := object.Cells(rows[nb]); len(cells) > 0 {
		e.setCaret(dom.StartOf(cells[0]))
		return
	}
	e.hasSelection = false
}
