package index

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"viewlint/internal/binder"
	"viewlint/internal/crawler"
	"viewlint/internal/extractor"

	"go.uber.org/zap"
)

// Workspace is a bound snapshot of a project: every parsed document plus the
// type model built from them.
type Workspace struct {
	*binder.Model
	Root      string
	BuiltAt   time.Time
	FileCount int
}

// Indexer orchestrates scanning and binding.
type Indexer struct {
	crawler *crawler.Crawler
	binder  *binder.Binder
	logger  *zap.Logger
}

// NewIndexer creates a new indexer.
func NewIndexer(c *crawler.Crawler, b *binder.Binder, logger *zap.Logger) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{
		crawler: c,
		binder:  b,
		logger:  logger,
	}
}

// Build scans root and binds everything found.
func (i *Indexer) Build(ctx context.Context, root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	var files []*extractor.FileUnit
	err = i.crawler.ScanProject(ctx, abs, func(fu *extractor.FileUnit) {
		files = append(files, fu)
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	return i.BuildFromFiles(abs, files)
}

// BuildFromFiles binds already extracted files.
func (i *Indexer) BuildFromFiles(root string, files []*extractor.FileUnit) (*Workspace, error) {
	m, err := i.binder.Bind(files)
	if err != nil {
		return nil, fmt.Errorf("bind failed: %w", err)
	}

	i.logger.Info("workspace indexed",
		zap.String("root", root),
		zap.Int("files", len(files)),
		zap.Int("types", len(m.Bindings)),
	)
	return &Workspace{Model: m, Root: root, BuiltAt: time.Now(), FileCount: len(files)}, nil
}

// Rel returns path relative to the workspace root when possible.
func (w *Workspace) Rel(path string) string {
	if rel, err := filepath.Rel(w.Root, path); err == nil && !filepath.IsAbs(rel) && rel != "" && rel[0] != '.' {
		return rel
	}
	return path
}
