// Package fix maps contract violations to patch recipes and applies them to
// documents.
package fix

import (
	"errors"
	"fmt"

	"viewlint/internal/classifier"
	"viewlint/internal/contract"
	"viewlint/internal/patch"
	"viewlint/internal/syntax"
)

var (
	// ErrNoFix is returned when a category has no automated patch recipe.
	ErrNoFix = errors.New("no automated fix for this diagnostic")
	// ErrNodeNotFound is returned when no declaration of the expected kind
	// encloses the diagnostic.
	ErrNodeNotFound = errors.New("no declaration of the expected kind at diagnostic location")
)

// RequiredBaseReference is the base list entry inserted by the MV002 fix.
func RequiredBaseReference() syntax.Token {
	return patch.TypeReference(contract.EngineNamespace, contract.RequiredBase)
}

// ExpectedKind returns the declaration kind a category's fix operates on.
func ExpectedKind(cat classifier.Category) (syntax.DeclKind, error) {
	switch cat {
	case classifier.MustBeClass:
		return syntax.DeclStruct, nil
	case classifier.MustInheritRequiredBase:
		return syntax.DeclClass, nil
	}
	return 0, fmt.Errorf("%s: %w", cat, ErrNoFix)
}

// ApplyFix applies the single recipe registered for cat to decl.
func ApplyFix(cat classifier.Category, decl *syntax.Declaration, r patch.Resolver) (*syntax.Declaration, error) {
	if decl == nil {
		return nil, fmt.Errorf("%s: %w", cat, ErrNodeNotFound)
	}
	switch cat {
	case classifier.MustBeClass:
		out, err := patch.ConvertValueTypeToReferenceType(decl)
		if err != nil {
			return nil, fmt.Errorf("%s on %s: %w", cat.Code(), decl.Name(), err)
		}
		return out, nil
	case classifier.MustInheritRequiredBase:
		if decl.Kind != syntax.DeclClass {
			return nil, fmt.Errorf("%s on %s %s: %w", cat.Code(), decl.Kind, decl.Name(), ErrNodeNotFound)
		}
		stripped := patch.RemoveFirstBaseIfClass(decl, r)
		return patch.InsertBaseAtFront(stripped, RequiredBaseReference()), nil
	}
	return nil, fmt.Errorf("%s: %w", cat, ErrNoFix)
}
