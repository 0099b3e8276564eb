// Package analysis classifies every bound type in a workspace and reports
// contract violations.
package analysis

import (
	"context"

	"viewlint/internal/binder"
	"viewlint/internal/classifier"
	"viewlint/internal/diag"
	"viewlint/internal/extractor"
	"viewlint/internal/fix"
	"viewlint/internal/index"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Analyzer runs the classifier over a workspace.
type Analyzer struct {
	Concurrency int
	// MaxDiagnostics caps the bag; zero means unlimited.
	MaxDiagnostics int
	logger         *zap.Logger
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(concurrency int, logger *zap.Logger) *Analyzer {
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{Concurrency: concurrency, logger: logger}
}

// Run classifies every declared type and returns one diagnostic per
// violating type, sorted by location.
func (a *Analyzer) Run(ctx context.Context, ws *index.Workspace) (*diag.Bag, error) {
	bindings := ws.Bindings
	results := make([]classifier.Category, len(bindings))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Concurrency)
	for i, b := range bindings {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cat, rule := classifier.Explain(b.Type)
			if cat != classifier.None {
				a.logger.Debug("contract violation",
					zap.String("type", b.Type.FullName()),
					zap.String("code", cat.Code()),
					zap.String("rule", rule),
				)
			}
			results[i] = cat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bag := diag.NewBag(0)
	for i, cat := range results {
		if cat == classifier.None {
			continue
		}
		bag.Add(newDiagnostic(cat, bindings[i]))
	}
	bag.Sort()
	bag.Dedup()
	bag.Truncate(a.MaxDiagnostics)
	return bag, nil
}

func newDiagnostic(cat classifier.Category, b *binder.Binding) diag.Diagnostic {
	t := b.Type
	primary := b.Primary()
	return diag.Diagnostic{
		Code:     cat.Code(),
		Severity: diag.SevError,
		TypeName: t.Name,
		TypeID:   primary.ID,
		Message:  cat.Message(t.Name),
		Location: t.Location,
		Extent:   diag.LineRange{Start: primary.StartLine, End: primary.EndLine},
		Fixable:  fixable(cat, primary),
	}
}

// fixable reports whether the fix for cat can run on the reported
// declaration: records and interfaces never match a recipe's node kind.
func fixable(cat classifier.Category, u *extractor.TypeUnit) bool {
	if !cat.Fixable() || u.Decl == nil {
		return false
	}
	kind, err := fix.ExpectedKind(cat)
	return err == nil && u.Decl.Kind == kind
}
