package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/docqa/internal/extract"
)

// Output is the unified context plus the per-file outcomes that built it.
type Output struct {
	Context string
	Results []extract.Result
}

// Failed counts results that carry an error.
func (o Output) Failed() int {
	n := 0
	for _, r := range o.Results {
		if !r.OK() {
			n++
		}
	}
	return n
}

// Aggregate extracts every file and concatenates
// "\n\n--- CONTENT FROM <name> ---\n\n<text>" blocks in upload order. Reader
// failures are folded in as their error message. The only error returned is
// context cancellation.
func (a *Aggregator) Aggregate(ctx context.Context, files []extract.UploadedFile) (Output, error) {
	start := time.Now()
	results := make([]extract.Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Workers)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.Extract(gctx, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Output{}, err
	}
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	var sb strings.Builder
	for _, r := range results {
		fmt.Fprintf(&sb, "\n\n--- CONTENT FROM %s ---\n\n%s", r.Source, r.ContextText())
	}
	out := Output{Context: sb.String(), Results: results}

	a.logger.Info("pipeline.aggregate.done",
		"files", len(files),
		"failed", out.Failed(),
		"workers", a.opts.Workers,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
