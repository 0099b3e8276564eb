package syntax

import (
	"errors"
	"fmt"
	"sort"
)

// ErrStaleNode is returned when a node no longer matches the document text.
var ErrStaleNode = errors.New("declaration does not match document source")

// ErrOverlappingEdits is returned when two edits touch the same bytes.
var ErrOverlappingEdits = errors.New("overlapping edits")

// Document is one parsed source file and its type declarations.
type Document struct {
	Path   string
	Source []byte
	Decls  []*Declaration // top-level declarations; nested ones hang off Children
}

// All returns every declaration in pre-order.
func (d *Document) All() []*Declaration {
	var out []*Declaration
	var walk func([]*Declaration)
	walk = func(ds []*Declaration) {
		for _, decl := range ds {
			out = append(out, decl)
			walk(decl.Children)
		}
	}
	walk(d.Decls)
	return out
}

// DeclarationAt returns the innermost declaration whose identifier contains
// offset, or nil. Offsets inside a body but outside any identifier match nothing.
func (d *Document) DeclarationAt(offset int) *Declaration {
	var found *Declaration
	var walk func([]*Declaration)
	walk = func(ds []*Declaration) {
		for _, decl := range ds {
			if !decl.Span.Contains(offset) {
				continue
			}
			if decl.IdentifierSpan.Contains(offset) {
				found = decl
			}
			walk(decl.Children)
		}
	}
	walk(d.Decls)
	return found
}

// Edit replaces the bytes in Span with NewText.
type Edit struct {
	Span    Span
	NewText string
}

// ReplaceEdit builds the edit that substitutes repl for old.
func (d *Document) ReplaceEdit(old, repl *Declaration) (Edit, error) {
	if old == nil || repl == nil {
		return Edit{}, fmt.Errorf("replace in %s: nil declaration", d.Path)
	}
	if old.Span.Start < 0 || old.Span.End > len(d.Source) || old.Span.Start > old.Span.End {
		return Edit{}, fmt.Errorf("replace %s in %s: span [%d,%d) out of range: %w",
			old.Name(), d.Path, old.Span.Start, old.Span.End, ErrStaleNode)
	}
	if string(d.Source[old.Span.Start:old.Span.End]) != old.Render() {
		return Edit{}, fmt.Errorf("replace %s in %s: %w", old.Name(), d.Path, ErrStaleNode)
	}
	return Edit{Span: old.Span, NewText: repl.Render()}, nil
}

// Replace returns the document source with old substituted by repl.
func (d *Document) Replace(old, repl *Declaration) ([]byte, error) {
	edit, err := d.ReplaceEdit(old, repl)
	if err != nil {
		return nil, err
	}
	return ApplyEdits(d.Source, []Edit{edit})
}

// ApplyEdits applies non-overlapping edits to src and returns a new buffer.
func ApplyEdits(src []byte, edits []Edit) ([]byte, error) {
	sorted := append([]Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start < sorted[j].Span.Start
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Span.Start < sorted[i-1].Span.End {
			return nil, fmt.Errorf("edits at %d and %d: %w", sorted[i-1].Span.Start, sorted[i].Span.Start, ErrOverlappingEdits)
		}
	}

	out := make([]byte, 0, len(src))
	pos := 0
	for _, e := range sorted {
		if e.Span.Start < pos || e.Span.End > len(src) || e.Span.Start > e.Span.End {
			return nil, fmt.Errorf("edit [%d,%d) out of range", e.Span.Start, e.Span.End)
		}
		out = append(out, src[pos:e.Span.Start]...)
		out = append(out, e.NewText...)
		pos = e.Span.End
	}
	out = append(out, src[pos:]...)
	return out, nil
}
