// Package xlsx reads the first worksheet of a spreadsheet as a plain-text grid.
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docqa/constants"
	"github.com/joseph-ayodele/docqa/internal/table"
)

// Reader implements extract.Reader for XLSX.
type Reader struct {
	logger *slog.Logger
}

func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

func (r *Reader) Format() constants.Format { return constants.XLSX }

// Read renders the first sheet with its first row as the header and no row
// index column. A sheet without rows reads as "".
func (r *Reader) Read(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty XLSX content")
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.Warn("xlsx.close_failed", "error", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	rows = trimEmptyRows(rows)

	r.logger.Debug("xlsx.read", "sheet", sheets[0], "sheets", len(sheets), "rows", len(rows))
	return table.RenderString(table.Table(rows)), nil
}

// trimEmptyRows drops leading and trailing rows without any non-empty cell.
func trimEmptyRows(rows [][]string) [][]string {
	empty := func(row []string) bool {
		for _, c := range row {
			if c != "" {
				return false
			}
		}
		return true
	}
	for len(rows) > 0 && empty(rows[0]) {
		rows = rows[1:]
	}
	for len(rows) > 0 && empty(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}
