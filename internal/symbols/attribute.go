package symbols

// ArgKind tags the value carried by an attribute constructor argument.
type ArgKind uint8

const (
	ArgUnresolved ArgKind = iota
	ArgPrimitive
	ArgTypeRef
)

// Arg is one constructor argument of an attribute application.
type Arg struct {
	Kind    ArgKind
	Literal string
	Type    *Type // set only for ArgTypeRef
}

// PrimitiveArg wraps a literal constant.
func PrimitiveArg(literal string) Arg {
	return Arg{Kind: ArgPrimitive, Literal: literal}
}

// TypeArg wraps a typeof(...) argument. Unresolved types collapse to ArgUnresolved.
func TypeArg(t *Type) Arg {
	if !t.Resolved() {
		name := ""
		if t != nil {
			name = t.Name
		}
		return Arg{Kind: ArgUnresolved, Literal: name}
	}
	return Arg{Kind: ArgTypeRef, Type: t}
}

// Attribute is an attribute applied to a type declaration.
type Attribute struct {
	// Class is the attribute's own type; nil or unresolved when binding failed.
	Class *Type
	Args  []Arg
}
