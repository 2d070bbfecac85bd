package pdf

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/docqa/internal/common"
	"github.com/joseph-ayodele/docqa/internal/ocr"
)

// ocrFallback recovers text from the images of a scanned page. Every failure
// is scoped to one image: it is logged and yields no text.
type ocrFallback struct {
	rec    ocr.Recognizer
	lang   string
	logger *slog.Logger
}

// recognize returns the OCR text of one image, or "" when nothing usable
// came back.
func (o ocrFallback) recognize(ctx context.Context, page, index int, img Image) string {
	bitmap, format, err := ocr.DecodeImage(img.Data)
	if err != nil {
		err = common.NewOCRError(img.FileType, page, index, err)
		o.logger.Warn("pdf.ocr.image_failed",
			"page", page, "image", index, "type", img.FileType, "kind", common.KindOCR, "error", err)
		return ""
	}
	text, err := o.rec.Recognize(ctx, bitmap, o.lang)
	if err != nil {
		err = common.NewOCRError(format, page, index, err)
		o.logger.Warn("pdf.ocr.image_failed",
			"page", page, "image", index, "format", format, "kind", common.KindOCR, "error", err)
		return ""
	}
	if strings.TrimSpace(text) == "" {
		o.logger.Debug("pdf.ocr.image_empty", "page", page, "image", index)
		return ""
	}
	return text
}
