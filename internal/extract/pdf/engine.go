// Package pdf reads PDF documents page by page, folding native text, detected
// tables and OCR output for image-only pages into one text stream.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sort"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/joseph-ayodele/docqa/internal/table"
)

// Image is one embedded image of a page, in the page's intrinsic order.
type Image struct {
	ObjNr    int
	FileType string
	Data     []byte
}

// Page is the transient per-page view assembled while reading.
type Page struct {
	Number int
	Text   string
	Tables []table.Table
	Images []Image
}

// Engine opens PDF bytes.
type Engine interface {
	Open(data []byte) (Document, error)
}

// Document exposes the per-page capabilities the reader needs. Page numbers
// are 1-based.
type Document interface {
	PageCount() int
	PageText(n int) (string, error)
	PageTables(n int) ([]table.Table, error)
	PageImages(n int) ([]Image, error)
	Close() error
}

// NewEngine returns the default engine: ledongthuc/pdf for text and layout,
// pdfcpu for embedded images.
func NewEngine(logger *slog.Logger) Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &engine{logger: logger}
}

type engine struct {
	logger *slog.Logger
}

func (e *engine) Open(data []byte) (doc Document, err error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty PDF content")
	}
	// ledongthuc/pdf panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("open pdf: %v", r)
		}
	}()

	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &document{data: data, text: r, pages: r.NumPage(), logger: e.logger}, nil
}

type document struct {
	data   []byte
	text   *lpdf.Reader
	pages  int
	logger *slog.Logger

	imgCtx *model.Context
	imgErr error
	opened bool
}

func (d *document) PageCount() int { return d.pages }

func (d *document) page(n int) (p lpdf.Page, err error) {
	if n < 1 || n > d.pages {
		return p, fmt.Errorf("page %d out of range [1,%d]", n, d.pages)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", n, r)
		}
	}()
	p = d.text.Page(n)
	if p.V.IsNull() {
		return p, fmt.Errorf("page %d: missing page object", n)
	}
	return p, nil
}

func (d *document) PageText(n int) (text string, err error) {
	p, err := d.page(n)
	if err != nil {
		return "", err
	}
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("page %d text: %v", n, r)
		}
	}()
	return p.GetPlainText(nil)
}

func (d *document) PageTables(n int) (tables []table.Table, err error) {
	p, err := d.page(n)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			tables, err = nil, fmt.Errorf("page %d layout: %v", n, r)
		}
	}()
	content := p.Content()
	glyphs := make([]Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, Glyph{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
	}
	return DetectTables(GroupLines(glyphs)), nil
}

// imageContext parses the document with pdfcpu on first use only, since
// images are needed just for pages that fall back to OCR.
func (d *document) imageContext() (*model.Context, error) {
	if d.opened {
		return d.imgCtx, d.imgErr
	}
	d.opened = true
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	d.imgCtx, d.imgErr = api.ReadValidateAndOptimize(bytes.NewReader(d.data), conf)
	if d.imgErr != nil {
		d.imgErr = fmt.Errorf("pdfcpu read: %w", d.imgErr)
	}
	return d.imgCtx, d.imgErr
}

func (d *document) PageImages(n int) (images []Image, err error) {
	ctx, err := d.imageContext()
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			images, err = nil, fmt.Errorf("page %d images: %v", n, r)
		}
	}()
	found, err := pdfcpu.ExtractPageImages(ctx, n, false)
	if err != nil {
		return nil, fmt.Errorf("page %d images: %w", n, err)
	}

	objNrs := make([]int, 0, len(found))
	for objNr := range found {
		objNrs = append(objNrs, objNr)
	}
	sort.Ints(objNrs)

	for _, objNr := range objNrs {
		img := found[objNr]
		// images without data keep their slot so numbering follows the page
		out := Image{ObjNr: objNr, FileType: img.FileType}
		if img.Reader != nil {
			raw, err := io.ReadAll(img)
			if err != nil {
				d.logger.Warn("pdf.image.read_failed", "page", n, "obj", objNr, "error", err)
			}
			out.Data = raw
		}
		images = append(images, out)
	}
	return images, nil
}

func (d *document) Close() error {
	d.text = nil
	d.imgCtx = nil
	return nil
}
