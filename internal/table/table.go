// Package table turns detected tabular structures into flat text.
package table

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Delimiter separates cells of one serialized row.
const Delimiter = " | "

// Table is an ordered list of rows. Rows may have different lengths.
type Table [][]string

// Serialize renders one line per row with cells joined by Delimiter.
// Ragged rows render only the cells they have.
func Serialize(t Table) string {
	lines := make([]string, 0, len(t))
	for _, row := range t {
		lines = append(lines, strings.Join(row, Delimiter))
	}
	return strings.Join(lines, "\n")
}

// TrimCells returns a copy of t with surrounding whitespace removed from every cell.
func TrimCells(t Table) Table {
	out := make(Table, len(t))
	for i, row := range t {
		r := make([]string, len(row))
		for j, cell := range row {
			r[j] = strings.TrimSpace(cell)
		}
		out[i] = r
	}
	return out
}

// Width is the length of the longest row.
func Width(t Table) int {
	w := 0
	for _, row := range t {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Pad returns a copy of t where every row has Width(t) cells.
func Pad(t Table) Table {
	w := Width(t)
	out := make(Table, len(t))
	for i, row := range t {
		r := make([]string, w)
		copy(r, row)
		out[i] = r
	}
	return out
}

// Render writes a borderless, right-aligned fixed-width grid. The first row is
// the header. Nothing is written for an empty table.
func Render(w io.Writer, t Table) {
	if len(t) == 0 || Width(t) == 0 {
		return
	}
	t = Pad(t)

	tw := tablewriter.NewWriter(w)
	tw.SetHeader(t[0])
	tw.SetAutoWrapText(false)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_RIGHT)
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	tw.SetCenterSeparator("")
	tw.SetColumnSeparator("")
	tw.SetRowSeparator("")
	tw.SetHeaderLine(false)
	tw.SetBorder(false)
	tw.SetTablePadding(" ")
	tw.SetNoWhiteSpace(true)
	tw.AppendBulk(t[1:])
	tw.Render()
}

// RenderString is Render into a string with trailing newlines removed.
func RenderString(t Table) string {
	var b strings.Builder
	Render(&b, t)
	return strings.TrimRight(b.String(), "\n")
}
