package extractor

import (
	"viewlint/internal/symbols"
	"viewlint/internal/syntax"
)

// Scope is the lexical context names in a declaration are resolved in.
type Scope struct {
	Namespace  string
	Usings     []string          // namespaces imported with `using X;`
	Aliases    map[string]string // `using A = X.Y;`
	Containers []string          // enclosing type names, outermost first
}

// ArgKind distinguishes typeof(...) arguments from everything else.
type ArgKind uint8

const (
	ArgLiteral ArgKind = iota
	ArgTypeOf
)

// ArgRef is a positional attribute constructor argument as written.
type ArgRef struct {
	Kind ArgKind
	Text string // type text for ArgTypeOf, expression text otherwise
}

// AttributeRef is an attribute application as written.
type AttributeRef struct {
	Name string
	Args []ArgRef
}

// TypeUnit is one type declaration and everything the binder needs from it.
type TypeUnit struct {
	ID         string
	Name       string
	Kind       symbols.Kind
	Arity      int
	Modifiers  []string
	Bases      []string
	Attributes []AttributeRef
	Scope      Scope

	Filepath  string
	Location  symbols.Location
	StartLine int
	EndLine   int

	Decl   *syntax.Declaration
	Parent *TypeUnit
}

// HasModifier reports whether the declaration carries modifier m.
func (u *TypeUnit) HasModifier(m string) bool {
	for _, mod := range u.Modifiers {
		if mod == m {
			return true
		}
	}
	return false
}

// FileUnit is the extraction result for one source file.
type FileUnit struct {
	Path      string
	Document  *syntax.Document
	Types     []*TypeUnit
	HasErrors bool
}
