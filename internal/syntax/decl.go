// Package syntax holds full-fidelity type declaration nodes.
//
// A node is a flat sequence of tokens. Each token owns the trivia
// (whitespace and comments) that follows it up to the next token, so
// rendering the tokens in order reproduces the source text exactly.
package syntax

import "strings"

// Token is a piece of source text and the trivia trailing it.
type Token struct {
	Text   string
	Trivia string
}

func (t Token) String() string {
	return t.Text + t.Trivia
}

// DeclKind is the syntactic kind of a type declaration.
type DeclKind uint8

const (
	DeclClass DeclKind = iota
	DeclStruct
	DeclInterface
	DeclRecord
)

func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "class"
	case DeclStruct:
		return "struct"
	case DeclInterface:
		return "interface"
	case DeclRecord:
		return "record"
	}
	return "unknown"
}

// Span is a half-open byte range in a source file.
type Span struct {
	Start int
	End   int
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// BaseList is the ordered list after the colon. Base classes come first by
// convention; nothing here enforces that.
type BaseList struct {
	Colon      Token
	Types      []Token
	Separators []Token // len(Separators) == len(Types)-1
}

// Declaration is a class, struct, interface or record declaration.
type Declaration struct {
	Kind DeclKind

	Attributes     []Token
	Modifiers      []Token
	Keyword        Token
	Identifier     Token
	TypeParameters *Token
	Parameters     *Token // record primary constructor
	BaseList       *BaseList
	Constraints    []Token
	OpenBrace      Token
	Members        []Token
	CloseBrace     Token
	Semicolon      *Token

	// Span covers the declaration in the source it was parsed from.
	Span Span
	// IdentifierSpan is where diagnostics against this declaration point.
	IdentifierSpan Span
	// Children are nested type declarations in source order.
	Children []*Declaration
}

// Name returns the identifier text.
func (d *Declaration) Name() string {
	return d.Identifier.Text
}

// HasModifier reports whether a modifier with the given text is present.
func (d *Declaration) HasModifier(m string) bool {
	for _, tok := range d.Modifiers {
		if tok.Text == m {
			return true
		}
	}
	return false
}

// BaseTypes returns the base list entries without trivia.
func (d *Declaration) BaseTypes() []string {
	if d.BaseList == nil {
		return nil
	}
	out := make([]string, 0, len(d.BaseList.Types))
	for _, t := range d.BaseList.Types {
		out = append(out, strings.TrimSpace(t.Text))
	}
	return out
}

// Clone returns a copy whose token slices can be modified independently.
// Children are shared; they are never mutated.
func (d *Declaration) Clone() *Declaration {
	if d == nil {
		return nil
	}
	c := *d
	c.Attributes = append([]Token(nil), d.Attributes...)
	c.Modifiers = append([]Token(nil), d.Modifiers...)
	c.Constraints = append([]Token(nil), d.Constraints...)
	c.Members = append([]Token(nil), d.Members...)
	if d.TypeParameters != nil {
		tp := *d.TypeParameters
		c.TypeParameters = &tp
	}
	if d.Parameters != nil {
		p := *d.Parameters
		c.Parameters = &p
	}
	if d.Semicolon != nil {
		s := *d.Semicolon
		c.Semicolon = &s
	}
	if d.BaseList != nil {
		bl := *d.BaseList
		bl.Types = append([]Token(nil), d.BaseList.Types...)
		bl.Separators = append([]Token(nil), d.BaseList.Separators...)
		c.BaseList = &bl
	}
	c.Children = append([]*Declaration(nil), d.Children...)
	return &c
}

// Header returns the token that immediately precedes the base list slot:
// the parameter list, the type parameter list or the identifier.
func (d *Declaration) Header() *Token {
	switch {
	case d.Parameters != nil:
		return d.Parameters
	case d.TypeParameters != nil:
		return d.TypeParameters
	}
	return &d.Identifier
}

// Render writes the declaration back to source text.
func (d *Declaration) Render() string {
	var b strings.Builder
	write := func(toks ...Token) {
		for _, t := range toks {
			b.WriteString(t.Text)
			b.WriteString(t.Trivia)
		}
	}
	write(d.Attributes...)
	write(d.Modifiers...)
	write(d.Keyword, d.Identifier)
	if d.TypeParameters != nil {
		write(*d.TypeParameters)
	}
	if d.Parameters != nil {
		write(*d.Parameters)
	}
	if d.BaseList != nil {
		write(d.BaseList.Colon)
		for i, t := range d.BaseList.Types {
			write(t)
			if i < len(d.BaseList.Separators) {
				write(d.BaseList.Separators[i])
			}
		}
	}
	write(d.Constraints...)
	write(d.OpenBrace)
	write(d.Members...)
	write(d.CloseBrace)
	if d.Semicolon != nil {
		write(*d.Semicolon)
	}
	return b.String()
}
