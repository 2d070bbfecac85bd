// Package pipeline dispatches uploaded files to format readers and merges the
// results into one provenance-tagged context string.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/docqa/constants"
	"github.com/joseph-ayodele/docqa/internal/common"
	"github.com/joseph-ayodele/docqa/internal/extract"
)

// DefaultMaxUploadBytes caps a single upload.
const DefaultMaxUploadBytes int64 = 200 << 20

type Options struct {
	// Workers bounds how many files are read at once. Values below 1 mean 1.
	Workers int
	// MaxUploadBytes rejects larger uploads. 0 means DefaultMaxUploadBytes,
	// negative disables the check.
	MaxUploadBytes int64
}

// Aggregator owns one reader per format.
type Aggregator struct {
	logger  *slog.Logger
	readers map[constants.Format]extract.Reader
	opts    Options
}

// cachedReader is satisfied by extract.CachedReader.
type cachedReader interface {
	ReadCached(ctx context.Context, data []byte) (string, bool, error)
}

func NewAggregator(logger *slog.Logger, opts Options, readers ...extract.Reader) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.MaxUploadBytes == 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	m := make(map[constants.Format]extract.Reader, len(readers))
	for _, r := range readers {
		if r != nil {
			m[r.Format()] = r
		}
	}
	return &Aggregator{logger: logger, readers: m, opts: opts}
}

// Extract reads one file. Failures are returned inside the Result, never as
// a Go error, so one bad upload cannot sink the batch.
func (a *Aggregator) Extract(ctx context.Context, f extract.UploadedFile) extract.Result {
	start := time.Now()
	format := constants.MapMIMEToFormat(f.MIMEType)
	res := extract.Result{Source: f.Name, Format: format}

	reader, ok := a.readers[format]
	if format == constants.Unsupported || !ok {
		res.Err = common.NewUnsupportedError(f.Name)
		a.logger.Warn("pipeline.file.unsupported", "file", f.Name, "mime", f.MIMEType)
		return res
	}

	if err := a.validate(f); err != nil {
		res.Err = common.NewReadError(f.Name, string(format), err)
		a.logger.Warn("pipeline.file.invalid", "file", f.Name, "error", err)
		return res
	}

	var (
		text string
		err  error
	)
	if cr, ok := reader.(cachedReader); ok {
		text, res.Cached, err = cr.ReadCached(ctx, f.Data)
	} else {
		text, err = reader.Read(ctx, f.Data)
	}
	res.Duration = time.Since(start)

	if err != nil {
		res.Err = common.NewReadError(f.Name, string(format), err)
		a.logger.Error("pipeline.file.failed",
			"file", f.Name,
			"format", format,
			"elapsed_ms", res.Duration.Milliseconds(),
			"error", err,
		)
		return res
	}
	res.Text = text
	a.logger.Info("pipeline.file.done",
		"file", f.Name,
		"format", format,
		"chars", len([]rune(text)),
		"cached", res.Cached,
		"elapsed_ms", res.Duration.Milliseconds(),
		"request_id", common.RequestIDFromContext(ctx),
	)
	return res
}

func (a *Aggregator) validate(f extract.UploadedFile) error {
	v := common.NewValidator().
		Field("name", f.Name, common.Required, common.ValidUTF8).
		Field("size", int64(len(f.Data)), common.MaxBytes(a.opts.MaxUploadBytes))
	if f.Size != 0 {
		v.Check(f.Size == int64(len(f.Data)), "size", f.Size,
			fmt.Sprintf("declared size does not match %d bytes of content", len(f.Data)))
	}
	return v.Error()
}
