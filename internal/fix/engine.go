package fix

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"viewlint/internal/diag"
	"viewlint/internal/patch"
	"viewlint/internal/syntax"

	"go.uber.org/zap"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// Workspace gives the engine access to parsed documents and scoped resolvers.
type Workspace interface {
	Document(path string) *syntax.Document
	ResolverAt(path string, offset int) patch.Resolver
}

// Options configures which fixes are applied and whether files are written.
type Options struct {
	// Code restricts fixing to one diagnostic code; empty means all fixable codes.
	Code   string
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Code     string
	Title    string
	TypeName string
	Path     string
	Line     int
}

// SkippedFix captures a fix that could not be applied and why.
type SkippedFix struct {
	Code     string
	TypeName string
	Path     string
	Line     int
	Reason   string
}

// FileChange holds the before and after contents of a modified file.
type FileChange struct {
	Path      string
	EditCount int
	Before    []byte
	After     []byte
}

// Result aggregates applied fixes, skipped ones and file changes.
type Result struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

// Engine applies registered fixes for a batch of diagnostics.
type Engine struct {
	registry *Registry
	logger   *zap.Logger
	write    func(path string, data []byte) error
}

// NewEngine creates an engine over the default registry.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		registry: NewRegistry(),
		logger:   logger,
		write:    writeFile,
	}
}

type candidate struct {
	diag   diag.Diagnostic
	action Action
	edit   syntax.Edit
}

// Apply fixes every selected diagnostic. Within one file the edits are
// applied together; a fix whose declaration overlaps an earlier one is
// skipped and will surface again on the next run.
func (e *Engine) Apply(ctx context.Context, ws Workspace, diagnostics []diag.Diagnostic, opts Options) (*Result, error) {
	result := &Result{}
	if ws == nil {
		return result, fmt.Errorf("fix: workspace is nil")
	}

	byFile := make(map[string][]diag.Diagnostic)
	var files []string
	for _, d := range diagnostics {
		if opts.Code != "" && d.Code != opts.Code {
			continue
		}
		if !d.Fixable {
			continue
		}
		path := d.Location.File
		if _, ok := byFile[path]; !ok {
			files = append(files, path)
		}
		byFile[path] = append(byFile[path], d)
	}
	sort.Strings(files)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		change, err := e.applyFile(ws, path, byFile[path], result)
		if err != nil {
			return result, err
		}
		if change == nil {
			continue
		}
		if !opts.DryRun {
			if err := e.write(path, change.After); err != nil {
				return result, fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
		result.FileChanges = append(result.FileChanges, *change)
	}

	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

func (e *Engine) applyFile(ws Workspace, path string, diags []diag.Diagnostic, result *Result) (*FileChange, error) {
	doc := ws.Document(path)
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Location.Start < diags[j].Location.Start
	})

	var cands []candidate
	for _, d := range diags {
		skip := func(reason string) {
			result.Skipped = append(result.Skipped, SkippedFix{
				Code: d.Code, TypeName: d.TypeName, Path: path, Line: d.Location.Line, Reason: reason,
			})
			e.logger.Warn("fix skipped",
				zap.String("code", d.Code),
				zap.String("type", d.TypeName),
				zap.String("file", path),
				zap.String("reason", reason))
		}

		a, err := e.registry.Lookup(d.Code)
		if err != nil {
			skip(err.Error())
			continue
		}
		decl, err := Locate(doc, d, a)
		if err != nil {
			skip(err.Error())
			continue
		}
		repl, err := a.Apply(decl, ws.ResolverAt(path, decl.Span.Start))
		if err != nil {
			skip(err.Error())
			continue
		}
		edit, err := doc.ReplaceEdit(decl, repl)
		if err != nil {
			skip(err.Error())
			continue
		}

		overlaps := false
		for _, c := range cands {
			if c.edit.Span.Overlaps(edit.Span) {
				overlaps = true
				break
			}
		}
		if overlaps {
			skip("overlaps a fix already applied to an enclosing declaration; rerun fix")
			continue
		}
		cands = append(cands, candidate{diag: d, action: a, edit: edit})
	}

	if len(cands) == 0 {
		return nil, nil
	}

	edits := make([]syntax.Edit, 0, len(cands))
	for _, c := range cands {
		edits = append(edits, c.edit)
	}
	after, err := syntax.ApplyEdits(doc.Source, edits)
	if err != nil {
		return nil, fmt.Errorf("failed to apply edits to %s: %w", path, err)
	}

	for _, c := range cands {
		result.Applied = append(result.Applied, AppliedFix{
			Code:     c.diag.Code,
			Title:    c.action.Title,
			TypeName: c.diag.TypeName,
			Path:     path,
			Line:     c.diag.Location.Line,
		})
		e.logger.Debug("fix applied",
			zap.String("code", c.diag.Code),
			zap.String("type", c.diag.TypeName),
			zap.String("file", path))
	}
	return &FileChange{Path: path, EditCount: len(cands), Before: doc.Source, After: after}, nil
}

func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, data, mode)
}
