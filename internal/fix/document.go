package fix

import (
	"fmt"

	"viewlint/internal/diag"
	"viewlint/internal/patch"
	"viewlint/internal/syntax"
)

// Locate finds the declaration a diagnostic's fix applies to: the innermost
// declaration whose identifier holds the diagnostic start. A declaration of
// another kind than the action expects is an error, never a fallback to an
// enclosing one.
func Locate(doc *syntax.Document, d diag.Diagnostic, a Action) (*syntax.Declaration, error) {
	if doc == nil {
		return nil, fmt.Errorf("%s at %s: document not loaded: %w", d.Code, d.Location, ErrNodeNotFound)
	}
	decl := doc.DeclarationAt(d.Location.Start)
	if decl == nil {
		return nil, fmt.Errorf("%s at %s: no declaration: %w", d.Code, d.Location, ErrNodeNotFound)
	}
	if decl.Kind != a.Kind {
		return nil, fmt.Errorf("%s at %s: expected %s, found %s %s: %w",
			d.Code, d.Location, a.Kind, decl.Kind, decl.Name(), ErrNodeNotFound)
	}
	return decl, nil
}

// DocumentEdit computes the single edit that fixes d in doc.
func (r *Registry) DocumentEdit(doc *syntax.Document, d diag.Diagnostic, res patch.Resolver) (syntax.Edit, error) {
	a, err := r.Lookup(d.Code)
	if err != nil {
		return syntax.Edit{}, err
	}
	decl, err := Locate(doc, d, a)
	if err != nil {
		return syntax.Edit{}, err
	}
	repl, err := a.Apply(decl, res)
	if err != nil {
		return syntax.Edit{}, err
	}
	return doc.ReplaceEdit(decl, repl)
}

// FixDocument returns doc's source with d fixed.
func (r *Registry) FixDocument(doc *syntax.Document, d diag.Diagnostic, res patch.Resolver) ([]byte, error) {
	edit, err := r.DocumentEdit(doc, d, res)
	if err != nil {
		return nil, err
	}
	return syntax.ApplyEdits(doc.Source, []syntax.Edit{edit})
}
