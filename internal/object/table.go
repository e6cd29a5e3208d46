package object

import (
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
)

// Rows returns the <tr> elements of table in document order, looking
// through thead, tbody and tfoot sections. Nested tables are not entered.
func Rows(table *html.Node) []*html.Node {
	var rows []*html.Node
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case dom.IsElement(c, "tr"):
			rows = append(rows, c)
		case dom.IsElement(c, "thead", "tbody", "tfoot"):
			rows = append(rows, dom.ElementChildren(c, "tr")...)
		}
	}
	return rows
}

// Cells returns the td/th children of a row.
func Cells(row *html.Node) []*html.Node {
	return dom.ElementChildren(row, "td", "th")
}

// AllCells returns every cell of table, row by row.
func AllCells(table *html.Node) []*html.Node {
	var out []*html.Node
	for _, r := range Rows(table) {
		out = append(out, Cells(r)...)
	}
	return out
}

// IsHeaderCell reports whether cell is a <th>.
func IsHeaderCell(cell *html.Node) bool {
	return dom.IsElement(cell, "th")
}

// CellOf returns the cell of table that contains n, with its row and column
// index. Cells of nested tables are attributed to the nested table.
func CellOf(table, n *html.Node) (cell *html.Node, row, col int, ok bool) {
	for p := n; p != nil && p != table; p = p.Parent {
		if !dom.IsElement(p, "td", "th") {
			continue
		}
		if owningTable(p) != table {
			return nil, 0, 0, false
		}
		for ri, r := range Rows(table) {
			for ci, c := range Cells(r) {
				if c == p {
					return p, ri, ci, true
				}
			}
		}
		return nil, 0, 0, false
	}
	return nil, 0, 0, false
}

func owningTable(cell *html.Node) *html.Node {
	for p := cell.Parent; p != nil; p = p.Parent {
		if dom.IsElement(p, "table") {
			return p
		}
	}
	return nil
}
