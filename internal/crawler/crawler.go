package crawler

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"viewlint/internal/extractor"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultIgnored lists directories that never hold project sources.
var DefaultIgnored = []string{".git", "bin", "obj", "Library", "Temp", "Logs", "node_modules"}

// Crawler scans a directory for C# source files.
type Crawler struct {
	extractor   *extractor.Extractor
	ignored     []string
	concurrency int
	logger      *zap.Logger
}

type Option func(*Crawler)

// WithIgnored adds directory names to skip.
func WithIgnored(names ...string) Option {
	return func(c *Crawler) { c.ignored = append(c.ignored, names...) }
}

func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Crawler) { c.logger = l }
}

// NewCrawler creates a new crawler instance.
func NewCrawler(ext *extractor.Extractor, opts ...Option) *Crawler {
	c := &Crawler{
		extractor:   ext,
		ignored:     append([]string(nil), DefaultIgnored...),
		concurrency: 4,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListFiles returns the .cs files under root in walk order.
func (c *Crawler) ListFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && c.isIgnored(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.EqualFold(filepath.Ext(d.Name()), ".cs") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func (c *Crawler) isIgnored(name string) bool {
	for _, ign := range c.ignored {
		if name == ign {
			return true
		}
	}
	return false
}

// ScanProject walks root and parses every source file, streaming results to
// onFile. Files that fail to parse are logged and skipped. onFile is never
// called concurrently.
func (c *Crawler) ScanProject(ctx context.Context, root string, onFile func(*extractor.FileUnit)) error {
	paths, err := c.ListFiles(root)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			unit, err := c.extractor.ExtractFromFile(path)
			if err != nil {
				// Log and continue instead of failing the whole scan
				c.logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
				return nil
			}
			if unit.HasErrors {
				c.logger.Debug("file has syntax errors", zap.String("path", path))
			}

			mu.Lock()
			defer mu.Unlock()
			onFile(unit)
			return nil
		})
	}
	return g.Wait()
}
