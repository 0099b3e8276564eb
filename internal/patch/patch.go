// Package patch implements structure-preserving edits on type declarations.
//
// Every operation is pure: the input declaration is never modified and the
// caller substitutes the returned node into its document.
package patch

import (
	"errors"
	"strings"

	"viewlint/internal/symbols"
	"viewlint/internal/syntax"
)

// ErrNotValueType is returned when converting a declaration that is not a struct.
var ErrNotValueType = errors.New("declaration is not a struct")

// Resolver binds a base list entry in the scope of the declaration being patched.
// It returns nil (or an unresolved handle) when the entry cannot be bound.
type Resolver interface {
	ResolveBase(text string) *symbols.Type
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(text string) *symbols.Type

func (f ResolverFunc) ResolveBase(text string) *symbols.Type {
	return f(text)
}

// TypeReference builds a base list entry for ns.name.
func TypeReference(ns, name string) syntax.Token {
	if ns == "" {
		return syntax.Token{Text: name}
	}
	return syntax.Token{Text: ns + "." + name}
}

// NormalizeBaseList collapses a list with no entries to the absent form.
// Every removal passes its result through here.
func NormalizeBaseList(bl *syntax.BaseList) *syntax.BaseList {
	if bl == nil || len(bl.Types) == 0 {
		return nil
	}
	return bl
}

// RemoveFirstBaseIfClass drops the first base list entry when it binds to a
// non-interface type. Unresolvable entries and interfaces leave decl untouched.
func RemoveFirstBaseIfClass(decl *syntax.Declaration, r Resolver) *syntax.Declaration {
	if decl == nil || decl.BaseList == nil || len(decl.BaseList.Types) == 0 || r == nil {
		return decl
	}
	t := r.ResolveBase(strings.TrimSpace(decl.BaseList.Types[0].Text))
	if !t.Resolved() || t.Kind == symbols.KindInterface {
		return decl
	}

	out := decl.Clone()
	removed := out.BaseList.Types[0]
	out.BaseList.Types = out.BaseList.Types[1:]
	if len(out.BaseList.Separators) > 0 {
		out.BaseList.Separators = out.BaseList.Separators[1:]
	}
	out.BaseList = NormalizeBaseList(out.BaseList)
	if out.BaseList == nil {
		// the list vanished; its trailing trivia goes back to the header
		out.Header().Trivia = removed.Trivia
	}
	return out
}

// InsertBaseAtFront places ref at index 0 of the base list, creating the list
// when it is absent. Existing entries keep their relative order.
func InsertBaseAtFront(decl *syntax.Declaration, ref syntax.Token) *syntax.Declaration {
	if decl == nil {
		return nil
	}
	out := decl.Clone()
	ref.Text = strings.TrimSpace(ref.Text)
	ref.Trivia = ""

	if out.BaseList == nil || len(out.BaseList.Types) == 0 {
		header := out.Header()
		ref.Trivia = header.Trivia
		header.Trivia = " "
		out.BaseList = &syntax.BaseList{
			Colon: syntax.Token{Text: ":", Trivia: " "},
			Types: []syntax.Token{ref},
		}
		return out
	}

	bl := out.BaseList
	bl.Types = append([]syntax.Token{ref}, bl.Types...)
	bl.Separators = append([]syntax.Token{{Text: ",", Trivia: " "}}, bl.Separators...)
	return out
}

// ConvertValueTypeToReferenceType turns a struct declaration into a class
// declaration. Only the keyword text changes; its trivia and every other
// token are carried over as-is.
func ConvertValueTypeToReferenceType(decl *syntax.Declaration) (*syntax.Declaration, error) {
	if decl == nil || decl.Kind != syntax.DeclStruct {
		return nil, ErrNotValueType
	}
	out := decl.Clone()
	out.Kind = syntax.DeclClass
	out.Keyword.Text = "class"
	return out, nil
}
