// Package export writes extraction reports as XLSX workbooks.
package export

import (
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docqa/internal/extract"
)

const reportSheet = "Extraction"

var reportHeaders = []string{
	"File",
	"Format",
	"Status",
	"Characters",
	"Cached",
	"Duration (ms)",
	"Error",
}

// ResultsXLSX returns a workbook with one row per extraction result, in the
// order given.
func ResultsXLSX(results []extract.Result, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("export.xlsx.close_failed", "error", err)
		}
	}()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(reportHeaders))
	for i, h := range reportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(reportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range results {
		status, errMsg := "ok", ""
		if !r.OK() {
			status = string(r.Err.Kind)
			errMsg = truncate(r.Err.Message, 300)
		}
		format := string(r.Format)
		if format == "" {
			format = "-"
		}
		row := []any{
			r.Source,
			format,
			status,
			utf8.RuneCountInString(r.Text),
			r.Cached,
			r.Duration.Milliseconds(),
			errMsg,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(reportSheet, "A", "A", 40) // file
	_ = f.SetColWidth(reportSheet, "B", "F", 14)
	_ = f.SetColWidth(reportSheet, "G", "G", 60) // error

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"rows", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
