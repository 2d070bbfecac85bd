package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docqa/constants"
	"github.com/joseph-ayodele/docqa/internal/cache"
	"github.com/joseph-ayodele/docqa/internal/common"
	"github.com/joseph-ayodele/docqa/internal/extract"
)

type stubReader struct {
	format constants.Format
	read   func(data []byte) (string, error)
	calls  atomic.Int32
}

func (s *stubReader) Format() constants.Format { return s.format }

func (s *stubReader) Read(_ context.Context, data []byte) (string, error) {
	s.calls.Add(1)
	return s.read(data)
}

func echo(format constants.Format) *stubReader {
	return &stubReader{format: format, read: func(data []byte) (string, error) {
		return string(format) + ":" + string(data), nil
	}}
}

func upload(name, mime, data string) extract.UploadedFile {
	return extract.UploadedFile{Name: name, MIMEType: mime, Data: []byte(data), Size: int64(len(data))}
}

func TestAggregateOrderAndProvenance(t *testing.T) {
	agg := NewAggregator(nil, Options{}, echo(constants.PDF), echo(constants.DOCX), echo(constants.XLSX))

	out, err := agg.Aggregate(context.Background(), []extract.UploadedFile{
		upload("guide.pdf", constants.MIMEPDF, "p"),
		upload("notes.txt", "text/plain", "t"),
		upload("form.docx", constants.MIMEDOCX, "d"),
		upload("quota.xlsx", constants.MIMEXLSX+"; charset=binary", "x"),
	})
	require.NoError(t, err)

	assert.Equal(t,
		"\n\n--- CONTENT FROM guide.pdf ---\n\nPDF:p"+
			"\n\n--- CONTENT FROM notes.txt ---\n\nUnsupported file format: notes.txt"+
			"\n\n--- CONTENT FROM form.docx ---\n\nDOCX:d"+
			"\n\n--- CONTENT FROM quota.xlsx ---\n\nXLSX:x", out.Context)

	require.Len(t, out.Results, 4)
	assert.Equal(t, 1, out.Failed())
	assert.True(t, common.IsKind(out.Results[1].Err, common.KindUnsupported))
	assert.Equal(t, constants.XLSX, out.Results[3].Format)
}

func TestAggregateFoldsReaderErrors(t *testing.T) {
	bad := &stubReader{format: constants.PDF, read: func([]byte) (string, error) {
		return "", errors.New("no startxref")
	}}
	agg := NewAggregator(nil, Options{}, bad, echo(constants.DOCX))

	out, err := agg.Aggregate(context.Background(), []extract.UploadedFile{
		upload("broken.pdf", constants.MIMEPDF, "junk"),
		upload("ok.docx", constants.MIMEDOCX, "fine"),
	})
	require.NoError(t, err)

	assert.Contains(t, out.Context, "--- CONTENT FROM broken.pdf ---\n\nError reading PDF file: no startxref")
	assert.Contains(t, out.Context, "--- CONTENT FROM ok.docx ---\n\nDOCX:fine")
	assert.True(t, common.IsKind(out.Results[0].Err, common.KindUnreadable))
	assert.True(t, out.Results[1].OK())
}

func TestAggregateEmpty(t *testing.T) {
	out, err := NewAggregator(nil, Options{}).Aggregate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out.Context)
	assert.Empty(t, out.Results)
}

func TestAggregateParallelKeepsUploadOrder(t *testing.T) {
	slow := &stubReader{format: constants.PDF, read: func(data []byte) (string, error) {
		if string(data) == "first" {
			time.Sleep(20 * time.Millisecond)
		}
		return string(data), nil
	}}
	agg := NewAggregator(nil, Options{Workers: 4}, slow)

	out, err := agg.Aggregate(context.Background(), []extract.UploadedFile{
		upload("a.pdf", constants.MIMEPDF, "first"),
		upload("b.pdf", constants.MIMEPDF, "second"),
		upload("c.pdf", constants.MIMEPDF, "third"),
	})
	require.NoError(t, err)
	assert.Equal(t,
		"\n\n--- CONTENT FROM a.pdf ---\n\nfirst"+
			"\n\n--- CONTENT FROM b.pdf ---\n\nsecond"+
			"\n\n--- CONTENT FROM c.pdf ---\n\nthird", out.Context)
}

func TestExtractValidation(t *testing.T) {
	r := echo(constants.PDF)
	agg := NewAggregator(nil, Options{MaxUploadBytes: 4}, r)

	res := agg.Extract(context.Background(), upload("big.pdf", constants.MIMEPDF, "12345"))
	require.NotNil(t, res.Err)
	assert.ErrorIs(t, res.Err, common.ErrInvalidInput)
	assert.Contains(t, res.ContextText(), "Error reading PDF file:")

	mismatch := upload("m.pdf", constants.MIMEPDF, "12")
	mismatch.Size = 99
	res = agg.Extract(context.Background(), mismatch)
	assert.ErrorIs(t, res.Err, common.ErrInvalidInput)

	res = agg.Extract(context.Background(), upload("", constants.MIMEPDF, "1"))
	assert.ErrorIs(t, res.Err, common.ErrInvalidInput)

	assert.Zero(t, r.calls.Load())
}

func TestExtractUsesCache(t *testing.T) {
	inner := echo(constants.PDF)
	cached := extract.Cached(inner, cache.New("pdf", 2), nil)
	agg := NewAggregator(nil, Options{}, cached)
	f := upload("scan.pdf", constants.MIMEPDF, "bytes")

	first := agg.Extract(context.Background(), f)
	second := agg.Extract(context.Background(), f)

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestAggregateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	agg := NewAggregator(nil, Options{}, echo(constants.PDF))
	_, err := agg.Aggregate(ctx, []extract.UploadedFile{upload("a.pdf", constants.MIMEPDF, "x")})
	assert.ErrorIs(t, err, context.Canceled)
}
