package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/joseph-ayodele/docqa/constants"
	"github.com/joseph-ayodele/docqa/internal/extract"
)

// walkDir loads every file under root whose extension is in exts.
func walkDir(ctx context.Context, root string, exts map[string]struct{}, skipHidden bool, maxBytes int64, logger *slog.Logger) ([]extract.UploadedFile, Stats, error) {
	var (
		files []extract.UploadedFile
		stats Stats
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			logger.Warn("ingest.walk.error", "path", path, "error", walkErr)
			stats.Failed++
			return nil // continue walking
		}
		if path != root && skipHidden && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++
		if _, ok := exts[constants.NormalizeExt(filepath.Ext(path))]; !ok {
			return nil
		}
		stats.Matched++

		f, err := loadFile(path, maxBytes)
		if err != nil {
			logger.Warn("ingest.file.failed", "path", path, "error", err)
			stats.Failed++
			return nil
		}
		files = append(files, f)
		stats.Loaded++
		return nil
	})
	if err != nil {
		return files, stats, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, stats, nil
}
