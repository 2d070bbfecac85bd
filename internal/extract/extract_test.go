package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docqa/constants"
	"github.com/joseph-ayodele/docqa/internal/cache"
	"github.com/joseph-ayodele/docqa/internal/common"
)

type countingReader struct {
	calls int
	err   error
}

func (r *countingReader) Format() constants.Format { return constants.PDF }

func (r *countingReader) Read(_ context.Context, data []byte) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return "text of " + string(data), nil
}

func TestCachedReaderHitSkipsWork(t *testing.T) {
	inner := &countingReader{}
	r := Cached(inner, cache.New("pdf", 10), nil)
	ctx := context.Background()

	first, hit, err := r.ReadCached(ctx, []byte("doc-1"))
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := r.ReadCached(ctx, []byte("doc-1"))
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, constants.PDF, r.Format())

	_, err = r.Read(ctx, []byte("doc-2"))
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 2, r.Cache().Len())
}

func TestCachedReaderRetriesAfterFailure(t *testing.T) {
	inner := &countingReader{err: errors.New("corrupt")}
	r := Cached(inner, nil, nil)

	_, err := r.Read(context.Background(), []byte("x"))
	require.Error(t, err)

	inner.err = nil
	text, err := r.Read(context.Background(), []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "text of x", text)
	assert.Equal(t, 2, inner.calls)
}

func TestFingerprintAndSignature(t *testing.T) {
	f := UploadedFile{Name: "a.pdf", MIMEType: constants.MIMEPDF, Data: []byte("abc"), Size: 3}
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", f.Fingerprint())
	assert.Equal(t, Signature{Name: "a.pdf", Size: 3, Fingerprint: f.Fingerprint()}, f.Signature())
}

func TestResultContextText(t *testing.T) {
	ok := Result{Source: "a.docx", Text: "hello"}
	assert.True(t, ok.OK())
	assert.Equal(t, "hello", ok.ContextText())

	bad := Result{Source: "b.pdf", Err: common.NewReadError("b.pdf", "PDF", errors.New("EOF"))}
	assert.False(t, bad.OK())
	assert.Equal(t, "Error reading PDF file: EOF", bad.ContextText())
}
