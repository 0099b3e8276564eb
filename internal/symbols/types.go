// Package symbols models declared types as seen after binding.
package symbols

import (
	"fmt"
	"strings"
)

// Kind is the declaration kind of a bound type.
type Kind uint8

const (
	KindError Kind = iota // unresolved reference
	KindClass
	KindStruct
	KindInterface
	KindEnum
	KindDelegate
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindDelegate:
		return "delegate"
	}
	return "error"
}

// ParseKind maps a declaration keyword to a Kind. Unknown keywords yield KindError.
func ParseKind(s string) Kind {
	switch s {
	case "class", "record":
		return KindClass
	case "struct", "record struct":
		return KindStruct
	case "interface":
		return KindInterface
	case "enum":
		return KindEnum
	case "delegate":
		return KindDelegate
	}
	return KindError
}

// Location points at the span used when reporting against a type.
type Location struct {
	File   string `json:"file"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Type is a resolved type handle. Handles are produced by the binder for one
// analysis pass and must be treated as read-only afterwards.
type Type struct {
	Kind      Kind
	Abstract  bool
	Name      string
	Namespace string
	Arity     int

	// Base is the direct base type; following it yields the base chain.
	Base *Type
	// Interfaces are the directly declared interfaces.
	Interfaces []*Type
	// TypeArgs holds generic arguments when the handle is a constructed reference.
	TypeArgs []*Type

	Attributes []Attribute
	Location   Location

	// Definition points at the generic definition for constructed references.
	Definition *Type
}

// Resolved reports whether the handle refers to a known declaration.
func (t *Type) Resolved() bool {
	return t != nil && t.Kind != KindError
}

// FullName returns Namespace.Name, or Name in the global namespace.
func (t *Type) FullName() string {
	if t == nil {
		return ""
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// NamespaceName returns the innermost segment of the containing namespace:
// "Views" for Game.Views.
func (t *Type) NamespaceName() string {
	if t == nil {
		return ""
	}
	if i := strings.LastIndexByte(t.Namespace, '.'); i >= 0 {
		return t.Namespace[i+1:]
	}
	return t.Namespace
}

// DisplayName is FullName with generic arguments rendered.
func (t *Type) DisplayName() string {
	if t == nil {
		return ""
	}
	name := t.Name
	if len(t.TypeArgs) > 0 {
		name += "<"
		for i, a := range t.TypeArgs {
			if i > 0 {
				name += ", "
			}
			name += a.Name
		}
		name += ">"
	}
	return name
}

// BaseTypeChain returns t followed by each base type, most-derived first.
func (t *Type) BaseTypeChain() []*Type {
	var chain []*Type
	for cur := t; cur != nil; cur = cur.Base {
		chain = append(chain, cur)
	}
	return chain
}

// Construct returns a reference to the generic definition t applied to args.
func (t *Type) Construct(args []*Type) *Type {
	if t == nil || len(args) == 0 {
		return t
	}
	c := *t
	c.TypeArgs = args
	c.Definition = t
	return &c
}

// Unresolved returns a placeholder handle for a name the binder could not find.
func Unresolved(name string) *Type {
	return &Type{Kind: KindError, Name: name}
}
