package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textPDF writes a one-page PDF drawing content with Helvetica as /F1.
func textPDF(t *testing.T, content string) []byte {
	t.Helper()
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

// scannedPDF writes a PDF whose only page is one embedded PNG.
func scannedPDF(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.White)
		}
		img.Set(x, 16, color.Black)
	}
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var out bytes.Buffer
	require.NoError(t, api.ImportImages(nil, &out, []io.Reader{bytes.NewReader(pngBuf.Bytes())}, nil, nil))
	return out.Bytes()
}

func TestEngineTextAndTablePositionedWithTd(t *testing.T) {
	content := "BT /F1 12 Tf 72 740 Td (Admission scores 2025) Tj " +
		"0 -40 Td (Major) Tj 200 0 Td (Score) Tj " +
		"-200 -20 Td (Medicine) Tj 200 0 Td (27.5) Tj " +
		"-200 -20 Td (Pharmacy) Tj 200 0 Td (25.0) Tj ET"
	rec := &fakeRecognizer{}
	r := NewReader(NewEngine(nil), rec, Options{}, nil)

	got, err := r.Read(context.Background(), textPDF(t, content))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "\n--- Page 1 ---\n"), got)
	assert.Contains(t, got, "Admission scores 2025")
	assert.Contains(t, got, "Pharmacy")
	assert.Contains(t, got, "[TABLE 1]\nMajor | Score\nMedicine | 27.5\nPharmacy | 25.0\n")
	assert.NotContains(t, got, "[TABLE 2]")
	assert.Zero(t, rec.calls, "text-dense page is not OCR'd")
}

func TestEngineDocumentPages(t *testing.T) {
	doc, err := NewEngine(nil).Open(textPDF(t, "BT /F1 12 Tf 72 700 Td (Hello) Tj ET"))
	require.NoError(t, err)
	defer doc.Close()

	require.Equal(t, 1, doc.PageCount())
	text, err := doc.PageText(1)
	require.NoError(t, err)
	assert.Contains(t, text, "Hello")

	tables, err := doc.PageTables(1)
	require.NoError(t, err)
	assert.Empty(t, tables)

	_, err = doc.PageText(2)
	assert.Error(t, err)
}

func TestEngineScannedPageFallsBackToOCR(t *testing.T) {
	rec := &fakeRecognizer{out: []string{"scanned words"}}
	r := NewReader(NewEngine(nil), rec, Options{Lang: "eng"}, nil)

	got, err := r.Read(context.Background(), scannedPDF(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "\n--- Page 1 ---\n"), got)
	assert.Contains(t, got, "\n[OCR - Page 1 - Image 1]\nscanned words\n")
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, []string{"eng"}, rec.langs)
}
