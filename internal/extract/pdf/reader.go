package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/docqa/constants"
	"github.com/joseph-ayodele/docqa/internal/ocr"
	"github.com/joseph-ayodele/docqa/internal/table"
)

// Options tunes the smart-OCR policy.
type Options struct {
	// MinTextForOCR is the trimmed rune count below which a page is OCR'd.
	MinTextForOCR int
	// Lang is the OCR language code.
	Lang string
}

// Reader extracts page text, detected tables and OCR text from PDFs.
type Reader struct {
	engine Engine
	ocr    *ocrFallback
	opts   Options
	logger *slog.Logger
}

// NewReader builds a PDF reader. A nil recognizer disables the OCR fallback;
// page and table extraction still run.
func NewReader(engine Engine, rec ocr.Recognizer, opts Options, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		engine = NewEngine(logger)
	}
	if opts.MinTextForOCR <= 0 {
		opts.MinTextForOCR = DefaultMinTextForOCR
	}
	if opts.Lang == "" {
		opts.Lang = "vie"
	}
	r := &Reader{engine: engine, opts: opts, logger: logger}
	if rec != nil {
		r.ocr = &ocrFallback{rec: rec, lang: opts.Lang, logger: logger}
	}
	return r
}

func (r *Reader) Format() constants.Format { return constants.PDF }

// Read folds every page into one string:
//
//	--- Page n ---        always, one per page
//	<page text>          when non-empty
//	[TABLE i]            per detected table, numbered within the page
//	[OCR - Page n - Image k]  per image with text, only for sparse pages
func (r *Reader) Read(ctx context.Context, data []byte) (string, error) {
	start := time.Now()
	doc, err := r.engine.Open(data)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	var (
		sb       strings.Builder
		pages    = doc.PageCount()
		ocrPages int
	)
	for n := 1; n <= pages; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.loadPage(doc, n)

		fmt.Fprintf(&sb, "\n--- Page %d ---\n", n)
		if page.Text != "" {
			sb.WriteString(page.Text)
			sb.WriteString("\n")
		}
		for i, t := range page.Tables {
			fmt.Fprintf(&sb, "[TABLE %d]\n", i+1)
			sb.WriteString(table.Serialize(table.TrimCells(t)))
			sb.WriteString("\n")
		}

		if !NeedsOCR(page.Text, r.opts.MinTextForOCR) {
			continue
		}
		if r.ocr == nil {
			r.logger.Debug("pdf.page.ocr_skipped", "page", n, "reason", "ocr disabled")
			continue
		}
		images, err := doc.PageImages(n)
		if err != nil {
			r.logger.Warn("pdf.page.images_failed", "page", n, "error", err)
			continue
		}
		if len(images) == 0 {
			continue
		}
		ocrPages++
		r.logger.Info("pdf.page.ocr", "page", n, "images", len(images))
		for k, img := range images {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			if text := r.ocr.recognize(ctx, n, k+1, img); text != "" {
				fmt.Fprintf(&sb, "\n[OCR - Page %d - Image %d]\n%s\n", n, k+1, text)
			}
		}
	}

	r.logger.Debug("pdf.read",
		"pages", pages,
		"ocr_pages", ocrPages,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return sb.String(), nil
}

// loadPage never fails: a page whose text or layout cannot be read is
// treated as empty for that part and still goes through the OCR check.
func (r *Reader) loadPage(doc Document, n int) Page {
	text, err := doc.PageText(n)
	if err != nil {
		r.logger.Warn("pdf.page.text_failed", "page", n, "error", err)
		text = ""
	}
	tables, err := doc.PageTables(n)
	if err != nil {
		r.logger.Warn("pdf.page.tables_failed", "page", n, "error", err)
		tables = nil
	}
	return Page{Number: n, Text: text, Tables: tables}
}
