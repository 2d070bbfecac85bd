// Package ocr wraps an external OCR engine behind the Recognizer interface.
package ocr

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/docqa/internal/common"
)

// Recognizer converts a bitmap into text for the given language code.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, lang string) (string, error)
}

type Config struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	TessdataDir string
	PSM         int           // page segmentation mode; 0 = engine default
	Timeout     time.Duration // per image; 0 = no limit
}

// Tesseract runs the tesseract CLI, feeding each bitmap as PNG on stdin.
type Tesseract struct {
	cfg    Config
	bin    string
	runner Runner
	logger *slog.Logger
}

// NewTesseract resolves the tesseract binary up front so a missing engine
// fails at startup instead of on the first scanned page.
func NewTesseract(cfg Config, logger *slog.Logger) (*Tesseract, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	bin, err := exec.LookPath(cfg.Tesseract)
	if err != nil {
		return nil, common.NewAppError("OCR_UNAVAILABLE",
			fmt.Sprintf("tesseract binary %q not found; set OCR_TESSERACT_PATH or disable OCR", cfg.Tesseract),
			fmt.Errorf("%w: %v", common.ErrUnavailable, err))
	}
	return newTesseract(cfg, bin, execRunner{logger: logger}, logger), nil
}

func newTesseract(cfg Config, bin string, r Runner, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tesseract{cfg: cfg, bin: bin, runner: r, logger: logger}
}

// Recognize implements Recognizer.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image, lang string) (string, error) {
	if img == nil {
		return "", fmt.Errorf("tesseract: nil image")
	}
	if lang == "" {
		lang = "eng"
	}
	pngBytes, err := encodePNG(img)
	if err != nil {
		return "", err
	}

	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	// tesseract stdin stdout -l <lang>
	args := []string{"stdin", "stdout", "-l", lang}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}

	b := img.Bounds()
	t.logger.Debug("ocr.recognize", "lang", lang, "width", b.Dx(), "height", b.Dy())

	out, errb, err := t.runner.Run(ctx, pngBytes, t.bin, args...)
	if err != nil {
		msg := strings.TrimSpace(string(errb))
		if msg != "" {
			return "", fmt.Errorf("tesseract: %w: %s", err, truncate(msg, 512))
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return Normalize(string(out)), nil
}
