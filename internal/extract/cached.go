package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/docqa/constants"
	"github.com/joseph-ayodele/docqa/internal/cache"
)

// CachedReader memoizes another Reader by content fingerprint.
type CachedReader struct {
	next   Reader
	cache  *cache.LRU
	logger *slog.Logger
}

// Cached wraps next with c. Each reader should get its own LRU so formats
// occupy separate namespaces.
func Cached(next Reader, c *cache.LRU, logger *slog.Logger) *CachedReader {
	if logger == nil {
		logger = slog.Default()
	}
	if c == nil {
		c = cache.New(string(next.Format()), cache.DefaultCapacity)
	}
	return &CachedReader{next: next, cache: c, logger: logger}
}

func (r *CachedReader) Format() constants.Format { return r.next.Format() }

func (r *CachedReader) Read(ctx context.Context, data []byte) (string, error) {
	text, _, err := r.ReadCached(ctx, data)
	return text, err
}

// ReadCached is Read that also reports whether the result came from cache.
func (r *CachedReader) ReadCached(ctx context.Context, data []byte) (string, bool, error) {
	key := Fingerprint(data)
	start := time.Now()
	text, hit, err := r.cache.GetOrCompute(ctx, key, func(ctx context.Context) (string, error) {
		return r.next.Read(ctx, data)
	})
	r.logger.Debug("extract.cache",
		"reader", r.cache.Name(),
		"fingerprint", key[:12],
		"hit", hit,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, hit, err
}

// Cache exposes the underlying LRU (stats, clearing).
func (r *CachedReader) Cache() *cache.LRU { return r.cache }
