package editor

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/object"
	"github.com/dshills/richedit/internal/theme"
)

func parseFill(color string) (string, error) {
	c, err := theme.ParseColor(color)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return c.Hex(), nil
}

// selectedCells returns the cells of table whose nodes intersect the
// selection.
func (e *Editor) selectedCells(table *html.Node) []*html.Node {
	sel, ok := e.Selection()
	if !ok {
		return nil
	}
	var out []*html.Node
	for _, c := range object.AllCells(table) {
		if sel.Intersects(e.root, c) {
			out = append(out, c)
		}
	}
	return out
}

// fillCells sets the background of cells, honoring selection-only mode.
// keep filters the candidate cells.
func (e *Editor) fillCells(table *html.Node, color string, keep func(*html.Node) bool) int {
	cells := object.AllCells(table)
	if e.selectOnly {
		cells = e.selectedCells(table)
	}
	n := 0
	for _, c := range cells {
		if keep != nil && !keep(c) {
			continue
		}
		dom.SetStyle(c, "background-color", color)
		n++
	}
	return n
}

func isBodyCell(c *html.Node) bool {
	return !object.IsHeaderCell(c)
}

// SetTableBackground fills the table and its body cells. In selection-only
// mode only selected body cells are filled.
func (e *Editor) SetTableBackground(color string) error {
	fill, err := parseFill(color)
	if err != nil {
		return err
	}
	o, err := e.activeTable(false)
	if err != nil {
		return err
	}
	if e.selectOnly {
		if e.fillCells(o.Node(), fill, isBodyCell) == 0 {
			return ErrInvalidSelection
		}
	} else {
		dom.SetStyle(o.Node(), "background-color", fill)
		e.fillCells(o.Node(), fill, isBodyCell)
	}
	e.commitActive("setTableBackground")
	return nil
}

// SetHeaderBackground fills header cells.
func (e *Editor) SetHeaderBackground(color string) error {
	fill, err := parseFill(color)
	if err != nil {
		return err
	}
	o, err := e.activeTable(true)
	if err != nil {
		return err
	}
	if e.fillCells(o.Node(), fill, object.IsHeaderCell) == 0 {
		if e.selectOnly {
			return ErrInvalidSelection
		}
		return ErrUnsupported
	}
	e.commitActive("setHeaderBackground")
	return nil
}

// SetCellBackground fills the caret's cell, or every selected cell in
// selection-only mode. Without a caret cell all body cells are filled.
func (e *Editor) SetCellBackground(color string) error {
	fill, err := parseFill(color)
	if err != nil {
		return err
	}
	o, err := e.activeTable(false)
	if err != nil {
		return err
	}
	switch {
	case e.selectOnly:
		if e.fillCells(o.Node(), fill, nil) == 0 {
			return ErrInvalidSelection
		}
	default:
		if cell, _, _, ok := e.caretCell(o.Node()); ok {
			dom.SetStyle(cell, "background-color", fill)
		} else {
			e.fillCells(o.Node(), fill, isBodyCell)
		}
	}
	e.commitActive("setCellBackground")
	return nil
}

// ApplyTheme fills the table, header cells and body cells and picks black
// or white text per cell from the luminance of its background.
func (e *Editor) ApplyTheme(tableBg, headerBg, cellBg string) error {
	table, err := parseFill(tableBg)
	if err != nil {
		return err
	}
	header, err := parseFill(headerBg)
	if err != nil {
		return err
	}
	cell, err := parseFill(cellBg)
	if err != nil {
		return err
	}
	o, err := e.activeTable(false)
	if err != nil {
		return err
	}

	dom.SetStyle(o.Node(), "background-color", table)
	for _, c := range object.AllCells(o.Node()) {
		bg := cell
		if object.IsHeaderCell(c) {
			bg = header
		}
		dom.SetStyle(c, "background-color", bg, "color", theme.ContrastText(bg))
	}
	e.commitActive("applyTheme")
	return nil
}
