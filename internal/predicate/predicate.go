// Package predicate provides side-effect-free checks over bound types.
//
// Every predicate is nil-safe: a missing handle, an empty chain or an
// unresolved reference simply fails the check.
package predicate

import "viewlint/internal/symbols"

// IsExactType reports whether t is exactly ns.name, without walking bases.
// ns is matched against the innermost namespace segment, so Game.Views.IView
// is an IView in namespace Views.
func IsExactType(t *symbols.Type, ns, name string) bool {
	return t.Resolved() && t.Name == name && t.NamespaceName() == ns
}

// IsDerivedFrom walks the base chain starting at t itself.
func IsDerivedFrom(t *symbols.Type, ns, name string) bool {
	for _, cur := range t.BaseTypeChain() {
		if IsExactType(cur, ns, name) {
			return true
		}
	}
	return false
}

// ImplementsInterface reports whether any declared interface of t is, or
// extends, ns.name. Interface inheritance is followed transitively.
func ImplementsInterface(t *symbols.Type, ns, name string) bool {
	if t == nil {
		return false
	}
	seen := make(map[*symbols.Type]bool)
	var visit func(iface *symbols.Type) bool
	visit = func(iface *symbols.Type) bool {
		if iface == nil || seen[iface] {
			return false
		}
		seen[iface] = true
		if IsDerivedFrom(iface, ns, name) {
			return true
		}
		for _, parent := range iface.Interfaces {
			if visit(parent) {
				return true
			}
		}
		// constructed references share their definition's base interfaces
		if iface.Definition != nil {
			for _, parent := range iface.Definition.Interfaces {
				if visit(parent) {
					return true
				}
			}
		}
		return false
	}
	for _, iface := range t.Interfaces {
		if visit(iface) {
			return true
		}
	}
	return false
}

// ImplementsUnparameterizedInterface reports whether t directly lists the raw,
// non-generic form of ns.name. It does not follow interface inheritance.
func ImplementsUnparameterizedInterface(t *symbols.Type, ns, name string) bool {
	if t == nil {
		return false
	}
	for _, iface := range t.Interfaces {
		if IsExactType(iface, ns, name) && len(iface.TypeArgs) == 0 {
			return true
		}
	}
	return false
}

// HasAttributeReferencingType reports whether t carries an attribute deriving
// from attrNs.attrName with a typeof argument deriving from refNs.refName.
func HasAttributeReferencingType(t *symbols.Type, attrNs, attrName, refNs, refName string) bool {
	if t == nil {
		return false
	}
	for _, attr := range t.Attributes {
		if !IsDerivedFrom(attr.Class, attrNs, attrName) {
			continue
		}
		for _, arg := range attr.Args {
			if arg.Kind != symbols.ArgTypeRef {
				continue
			}
			if IsDerivedFrom(arg.Type, refNs, refName) {
				return true
			}
		}
	}
	return false
}
