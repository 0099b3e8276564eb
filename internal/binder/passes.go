package binder

import (
	"strings"

	"viewlint/internal/extractor"
	"viewlint/internal/symbols"
)

// declarePass creates one handle per distinct qualified name. Partial
// declarations of the same name merge into the first handle.
type declarePass struct{}

func (declarePass) Name() string { return "declare" }

func (declarePass) Run(m *Model) (PassStats, error) {
	var stats PassStats
	for _, path := range m.Paths() {
		for _, u := range m.Files[path].Types {
			stats.Attempted++
			k := unitKey(u)
			if b, ok := m.byKey[k]; ok {
				b.Units = append(b.Units, u)
				b.Type.Abstract = b.Type.Abstract || u.HasModifier("abstract")
				m.byUnit[u] = b
				stats.Skipped++
				continue
			}
			b := &Binding{
				Units: []*extractor.TypeUnit{u},
				Type: &symbols.Type{
					Kind:      u.Kind,
					Abstract:  u.HasModifier("abstract"),
					Name:      u.Name,
					Namespace: u.Scope.Namespace,
					Arity:     u.Arity,
					Location:  u.Location,
				},
			}
			m.byKey[k] = b
			m.byUnit[u] = b
			m.Bindings = append(m.Bindings, b)
			stats.Resolved++
		}
	}
	return stats, nil
}

func unitKey(u *extractor.TypeUnit) string {
	prefix := u.Scope.Namespace
	if len(u.Scope.Containers) > 0 {
		prefix = join(prefix, strings.Join(u.Scope.Containers, "."))
	}
	return key(join(prefix, u.Name), u.Arity)
}

// basesPass binds base lists. For a class, a first entry that binds to a
// class becomes the base type and the rest are interfaces. Classes without an
// explicit base derive from System.Object.
type basesPass struct{}

func (basesPass) Name() string { return "bases" }

func (basesPass) Run(m *Model) (PassStats, error) {
	var stats PassStats
	object := m.catalog.byKey["System.Object"]
	for _, b := range m.Bindings {
		t := b.Type
		seen := make(map[string]bool)
		for _, u := range b.Units {
			for i, text := range u.Bases {
				stats.Attempted++
				ref := m.resolve(text, u.Scope, false)
				if !ref.Resolved() {
					m.unresolved++
					stats.Skipped++
				} else {
					stats.Resolved++
				}

				if i == 0 && t.Kind == symbols.KindClass && ref.Resolved() && ref.Kind == symbols.KindClass {
					// partial declarations may repeat the base
					if t.Base == nil {
						t.Base = ref
					}
					continue
				}
				id := ref.DisplayName() + "|" + ref.Namespace
				if seen[id] {
					continue
				}
				seen[id] = true
				t.Interfaces = append(t.Interfaces, ref)
			}
		}
		if t.Kind == symbols.KindClass && t.Base == nil && t != object {
			t.Base = object
		}
	}
	return stats, nil
}

// attributesPass binds attribute classes and their constructor arguments.
type attributesPass struct{}

func (attributesPass) Name() string { return "attributes" }

func (attributesPass) Run(m *Model) (PassStats, error) {
	var stats PassStats
	for _, b := range m.Bindings {
		for _, u := range b.Units {
			for _, a := range u.Attributes {
				stats.Attempted++
				attr := symbols.Attribute{Class: m.resolve(a.Name, u.Scope, true)}
				if attr.Class.Resolved() {
					stats.Resolved++
				} else {
					m.unresolved++
					stats.Skipped++
				}
				for _, arg := range a.Args {
					switch arg.Kind {
					case extractor.ArgTypeOf:
						ref := m.resolve(arg.Text, u.Scope, false)
						if !ref.Resolved() {
							m.unresolved++
						}
						attr.Args = append(attr.Args, symbols.TypeArg(ref))
					default:
						attr.Args = append(attr.Args, symbols.PrimitiveArg(arg.Text))
					}
				}
				b.Type.Attributes = append(b.Type.Attributes, attr)
			}
		}
	}
	return stats, nil
}

// cyclesPass cuts inheritance links that lead back to a type already on the
// current path, so base chains and interface graphs terminate.
type cyclesPass struct{}

func (cyclesPass) Name() string { return "cycles" }

func (cyclesPass) Run(m *Model) (PassStats, error) {
	var stats PassStats
	for _, b := range m.Bindings {
		stats.Attempted++
		if breakBaseCycle(b.Type) {
			stats.Resolved++
		}
	}

	state := make(map[*symbols.Type]uint8) // 1 visiting, 2 done
	var visit func(t *symbols.Type)
	visit = func(t *symbols.Type) {
		state[t] = 1
		kept := t.Interfaces[:0:0]
		for _, iface := range t.Interfaces {
			def := definition(iface)
			if state[def] == 1 {
				stats.Resolved++
				continue
			}
			if state[def] == 0 {
				visit(def)
			}
			kept = append(kept, iface)
		}
		if len(kept) != len(t.Interfaces) {
			t.Interfaces = kept
		}
		state[t] = 2
	}
	for _, b := range m.Bindings {
		if state[b.Type] == 0 {
			visit(b.Type)
		}
	}
	return stats, nil
}

// breakBaseCycle walks t's base chain over definitions and clears the link
// that closes a loop. It reports whether a link was cut.
func breakBaseCycle(t *symbols.Type) bool {
	seen := map[*symbols.Type]bool{t: true}
	for cur := t; cur.Base != nil; {
		next := definition(cur.Base)
		if seen[next] {
			cur.Base = nil
			return true
		}
		seen[next] = true
		cur = next
	}
	return false
}

func definition(t *symbols.Type) *symbols.Type {
	if t.Definition != nil {
		return t.Definition
	}
	return t
}
