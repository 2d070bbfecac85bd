package pdf

import (
	"math"
	"sort"
	"strings"

	"github.com/joseph-ayodele/docqa/internal/table"
)

// Run is a positioned piece of text on one visual line.
type Run struct {
	X, W     float64
	FontSize float64
	S        string
}

// Line is one visual line of a page, top to bottom.
type Line struct {
	Y    float64
	Runs []Run
}

// Glyph is one piece of text as drawn on the page, in user space with Y
// increasing bottom to top.
type Glyph struct {
	X, Y, W  float64
	FontSize float64
	S        string
}

const (
	// baseline difference, in font sizes, within which glyphs share a line
	lineTolEm = 0.3
	// horizontal gap, in font sizes, that separates two table cells
	cellGapEm = 1.5
	// gap above which adjacent runs get a separating space
	wordGapEm = 0.15
	// column starts within this many font sizes are treated as aligned
	alignEm = 2.0
	// minimum shape of a detected table
	minTableRows = 2
	minTableCols = 2
)

type cell struct {
	x    float64
	text string
}

// GroupLines clusters glyphs that share a baseline into lines, top of the
// page first. Glyphs keep their drawing order within a line.
func GroupLines(glyphs []Glyph) []Line {
	sorted := make([]Glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if strings.Trim(g.S, "\r\n") == "" && g.S != "" {
			continue
		}
		sorted = append(sorted, g)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var lines []Line
	for _, g := range sorted {
		run := Run{X: g.X, W: g.W, FontSize: g.FontSize, S: g.S}
		if n := len(lines); n > 0 && math.Abs(lines[n-1].Y-g.Y) <= lineTolEm*math.Max(g.FontSize, 1) {
			lines[n-1].Runs = append(lines[n-1].Runs, run)
			continue
		}
		lines = append(lines, Line{Y: g.Y, Runs: []Run{run}})
	}
	return lines
}

// DetectTables finds ruled or whitespace-aligned tables in a page's lines.
// A table is a run of at least two consecutive lines that each split into
// two or more cells, where every line shares at least two column starts with
// the line above it.
func DetectTables(lines []Line) []table.Table {
	var (
		tables []table.Table
		cur    table.Table
		prev   []cell
	)
	flush := func() {
		if len(cur) >= minTableRows {
			tables = append(tables, cur)
		}
		cur, prev = nil, nil
	}

	for _, ln := range lines {
		cells := splitCells(ln.Runs)
		if len(cells) < minTableCols {
			flush()
			continue
		}
		if prev != nil && alignedColumns(prev, cells, lineFontSize(ln.Runs)) < minTableCols {
			flush()
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = c.text
		}
		cur = append(cur, row)
		prev = cells
	}
	flush()
	return tables
}

func splitCells(runs []Run) []cell {
	if len(runs) == 0 {
		return nil
	}
	sorted := make([]Run, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var (
		cells []cell
		sb    strings.Builder
		start = sorted[0].X
		end   = sorted[0].X
	)
	emit := func() {
		if text := strings.TrimSpace(sb.String()); text != "" {
			cells = append(cells, cell{x: start, text: text})
		}
		sb.Reset()
	}

	for i, r := range sorted {
		fs := math.Max(r.FontSize, 1)
		if i > 0 {
			gap := r.X - end
			switch {
			case gap > cellGapEm*fs:
				emit()
				start = r.X
			case gap > wordGapEm*fs && !strings.HasSuffix(sb.String(), " ") && !strings.HasPrefix(r.S, " "):
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(r.S)
		if e := r.X + r.W; e > end || i == 0 {
			end = e
		}
	}
	emit()
	return cells
}

func alignedColumns(a, b []cell, fs float64) int {
	tol := alignEm * math.Max(fs, 1)
	n := 0
	for _, ca := range a {
		for _, cb := range b {
			if math.Abs(ca.x-cb.x) <= tol {
				n++
				break
			}
		}
	}
	return n
}

func lineFontSize(runs []Run) float64 {
	var fs float64
	for _, r := range runs {
		fs = math.Max(fs, r.FontSize)
	}
	return fs
}
