// Package binder turns extracted declarations into bound type handles.
package binder

import (
	"fmt"

	"viewlint/internal/extractor"

	"go.uber.org/zap"
)

// Binder resolves declarations across a set of files.
type Binder struct {
	externs []Extern
	chain   *PassChain
	logger  *zap.Logger
}

type Option func(*Binder)

// WithExterns registers types declared outside the scanned sources.
func WithExterns(externs ...Extern) Option {
	return func(b *Binder) { b.externs = append(b.externs, externs...) }
}

func WithLogger(l *zap.Logger) Option {
	return func(b *Binder) { b.logger = l }
}

func WithChain(c *PassChain) Option {
	return func(b *Binder) { b.chain = c }
}

func New(opts ...Option) *Binder {
	b := &Binder{chain: NewDefaultChain(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind runs the pass chain over files. The returned model is read-only and
// safe for concurrent use.
func (b *Binder) Bind(files []*extractor.FileUnit) (*Model, error) {
	cat, err := newCatalog(b.externs)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	m := newModel(files, cat)
	m.Stages = b.chain.Run(m)
	for _, s := range m.Stages {
		b.logger.Debug("binder pass",
			zap.String("pass", s.Pass),
			zap.Int("attempted", s.Stats.Attempted),
			zap.Int("resolved", s.Stats.Resolved),
			zap.Int("skipped", s.Stats.Skipped),
			zap.Int("unresolved", s.UnresolvedAfter),
		)
		if s.Err != nil {
			return nil, fmt.Errorf("binder pass %s: %w", s.Pass, s.Err)
		}
	}
	m.sealed = true
	m.constructed = nil
	return m, nil
}
