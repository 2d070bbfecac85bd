package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docqa/internal/common"
)

type fakeRunner struct {
	stdout, stderr []byte
	err            error

	calls   int
	gotName string
	gotArgs []string
	gotIn   []byte
}

func (f *fakeRunner) Run(_ context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	f.calls++
	f.gotName = name
	f.gotArgs = args
	f.gotIn = stdin
	return f.stdout, f.stderr, f.err
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		img.Set(x, 1, color.Black)
	}
	return img
}

func TestTesseractRecognize(t *testing.T) {
	r := &fakeRunner{stdout: []byte("TUYỂN SINH  2025\r\n\n\n\nNgành Y khoa\f")}
	tess := newTesseract(Config{PSM: 6, TessdataDir: "/usr/share/tessdata"}, "/usr/bin/tesseract", r, nil)

	got, err := tess.Recognize(context.Background(), testImage(), "vie")
	require.NoError(t, err)

	assert.Equal(t, "TUYỂN SINH 2025\n\nNgành Y khoa", got)
	assert.Equal(t, "/usr/bin/tesseract", r.gotName)
	assert.Equal(t, []string{"stdin", "stdout", "-l", "vie", "--psm", "6", "--tessdata-dir", "/usr/share/tessdata"}, r.gotArgs)

	// stdin carries a PNG of the bitmap
	_, format, err := image.DecodeConfig(bytes.NewReader(r.gotIn))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestTesseractRecognizeFailure(t *testing.T) {
	r := &fakeRunner{stderr: []byte("Failed loading language 'vie'"), err: errors.New("exit status 1")}
	tess := newTesseract(Config{}, "tesseract", r, nil)

	_, err := tess.Recognize(context.Background(), testImage(), "vie")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed loading language")
}

func TestTesseractRejectsNilImage(t *testing.T) {
	r := &fakeRunner{}
	tess := newTesseract(Config{}, "tesseract", r, nil)

	_, err := tess.Recognize(context.Background(), nil, "vie")
	assert.Error(t, err)
	assert.Zero(t, r.calls)
}

func TestNewTesseractMissingBinary(t *testing.T) {
	_, err := NewTesseract(Config{Tesseract: "/nonexistent/bin/tesseract-xyz"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnavailable)
}

func TestDecodeImage(t *testing.T) {
	var pngBuf, jpgBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, testImage()))
	require.NoError(t, jpeg.Encode(&jpgBuf, testImage(), nil))

	tests := []struct {
		name   string
		data   []byte
		format string
	}{
		{"png", pngBuf.Bytes(), "png"},
		{"jpeg", jpgBuf.Bytes(), "jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, format, err := DecodeImage(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, 8, img.Bounds().Dx())
		})
	}

	_, _, err := DecodeImage(nil)
	assert.Error(t, err)
	_, _, err = DecodeImage([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Empty(t, Normalize(""))
	assert.Empty(t, Normalize("  \n\t \n"))
	assert.Equal(t, "a b\n\nc", Normalize("a\t\tb   \n-----\nc"))
}
