package binder

import (
	"sort"
	"strings"

	"viewlint/internal/extractor"
	"viewlint/internal/patch"
	"viewlint/internal/symbols"
	"viewlint/internal/syntax"
)

// Binding ties a bound type to the declarations it was built from.
type Binding struct {
	Type  *symbols.Type
	Units []*extractor.TypeUnit // partial declarations, in file order
}

// Primary is the declaration reported against, the first in file order.
func (b *Binding) Primary() *extractor.TypeUnit {
	return b.Units[0]
}

// Model is the result of binding a set of files.
type Model struct {
	Bindings []*Binding
	Files    map[string]*extractor.FileUnit
	Stages   []StageResult

	catalog     *catalog
	byKey       map[string]*Binding
	byUnit      map[*extractor.TypeUnit]*Binding
	constructed []*symbols.Type
	unresolved  int
	sealed      bool
}

func newModel(files []*extractor.FileUnit, cat *catalog) *Model {
	m := &Model{
		Files:   make(map[string]*extractor.FileUnit, len(files)),
		catalog: cat,
		byKey:   make(map[string]*Binding),
		byUnit:  make(map[*extractor.TypeUnit]*Binding),
	}
	for _, f := range files {
		m.Files[f.Path] = f
	}
	return m
}

// Types returns the bound source types in declaration order.
func (m *Model) Types() []*symbols.Type {
	out := make([]*symbols.Type, len(m.Bindings))
	for i, b := range m.Bindings {
		out[i] = b.Type
	}
	return out
}

// BindingOf returns the binding a declaration contributed to.
func (m *Model) BindingOf(u *extractor.TypeUnit) *Binding {
	return m.byUnit[u]
}

// Lookup resolves a fully qualified name as seen from the global namespace.
func (m *Model) Lookup(name string) *symbols.Type {
	return m.resolve(name, extractor.Scope{}, false)
}

// Paths returns the bound file paths in sorted order.
func (m *Model) Paths() []string {
	paths := make([]string, 0, len(m.Files))
	for p := range m.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Document returns the parsed document for path, or nil.
func (m *Model) Document(path string) *syntax.Document {
	if f, ok := m.Files[path]; ok {
		return f.Document
	}
	return nil
}

// UnitAt returns the innermost declaration in path containing offset.
func (m *Model) UnitAt(path string, offset int) *extractor.TypeUnit {
	f, ok := m.Files[path]
	if !ok {
		return nil
	}
	var best *extractor.TypeUnit
	for _, u := range f.Types {
		if u.Decl == nil || !u.Decl.Span.Contains(offset) {
			continue
		}
		if best == nil || u.Decl.Span.End-u.Decl.Span.Start < best.Decl.Span.End-best.Decl.Span.Start {
			best = u
		}
	}
	return best
}

// ResolverAt binds base list text in the scope of the declaration enclosing
// offset in path. Outside any declaration the file scope is empty.
func (m *Model) ResolverAt(path string, offset int) patch.Resolver {
	var scope extractor.Scope
	if u := m.UnitAt(path, offset); u != nil {
		scope = u.Scope
	}
	return patch.ResolverFunc(func(text string) *symbols.Type {
		return m.resolve(text, scope, false)
	})
}

// resolve binds a reference written in scope. Lookup order: the alias table,
// enclosing types and namespaces innermost first, using directives, the
// global namespace, then the catalog by simple name. Attribute names also try
// the Attribute suffix at every step.
func (m *Model) resolve(text string, scope extractor.Scope, attribute bool) *symbols.Type {
	ref, err := ParseTypeRef(text)
	if err != nil {
		return symbols.Unresolved(strings.TrimSpace(text))
	}

	def := m.find(ref, scope, attribute)
	if def == nil {
		return symbols.Unresolved(ref.String())
	}
	if len(ref.Args) == 0 {
		return def
	}
	args := make([]*symbols.Type, len(ref.Args))
	for i, a := range ref.Args {
		if a.Name == "" {
			args[i] = symbols.Unresolved("")
			continue
		}
		args[i] = m.resolve(a.String(), scope, false)
	}
	return m.construct(def, args)
}

func (m *Model) find(ref TypeRef, scope extractor.Scope, attribute bool) *symbols.Type {
	names := []string{ref.Dotted()}
	if attribute && !strings.HasSuffix(ref.Name, "Attribute") {
		names = append(names, ref.Dotted()+"Attribute")
	}
	arity := ref.Arity()

	for _, name := range names {
		if t := m.findName(name, arity, ref, scope); t != nil {
			return t
		}
	}
	return nil
}

func (m *Model) findName(dotted string, arity int, ref TypeRef, scope extractor.Scope) *symbols.Type {
	if ref.Global {
		return m.byFullKey(key(dotted, arity))
	}

	first, rest, qualified := strings.Cut(dotted, ".")
	if target, ok := scope.Aliases[first]; ok {
		if qualified {
			return m.byFullKey(key(target+"."+rest, arity))
		}
		if t := m.byFullKey(key(target, arity)); t != nil {
			return t
		}
	}

	if qualified {
		if t := m.byFullKey(key(dotted, arity)); t != nil {
			return t
		}
	}

	for _, prefix := range enclosingPrefixes(scope) {
		if t := m.byFullKey(key(join(prefix, dotted), arity)); t != nil {
			return t
		}
	}

	for _, u := range scope.Usings {
		if t := m.byFullKey(key(join(u, dotted), arity)); t != nil {
			return t
		}
	}

	if t := m.byFullKey(key(dotted, arity)); t != nil {
		return t
	}

	if !qualified {
		if t, ok := m.catalog.bySimple[key(dotted, arity)]; ok {
			return t
		}
	}
	return nil
}

// enclosingPrefixes lists lookup prefixes from the innermost enclosing type
// outwards through each enclosing namespace, excluding the global namespace.
func enclosingPrefixes(scope extractor.Scope) []string {
	var out []string
	for i := len(scope.Containers); i > 0; i-- {
		out = append(out, join(scope.Namespace, strings.Join(scope.Containers[:i], ".")))
	}
	ns := scope.Namespace
	for ns != "" {
		out = append(out, ns)
		i := strings.LastIndex(ns, ".")
		if i < 0 {
			break
		}
		ns = ns[:i]
	}
	return out
}

// byFullKey prefers source declarations over catalog entries.
func (m *Model) byFullKey(k string) *symbols.Type {
	if b, ok := m.byKey[k]; ok {
		return b.Type
	}
	if t, ok := m.catalog.byKey[k]; ok {
		return t
	}
	return nil
}

// construct makes a reference to def applied to args. Until the model is
// sealed the copy is refreshed from def after every pass.
func (m *Model) construct(def *symbols.Type, args []*symbols.Type) *symbols.Type {
	c := def.Construct(args)
	if !m.sealed {
		m.constructed = append(m.constructed, c)
	}
	return c
}

func (m *Model) refreshConstructed() {
	for _, c := range m.constructed {
		def := c.Definition
		c.Kind = def.Kind
		c.Abstract = def.Abstract
		c.Base = def.Base
		c.Interfaces = def.Interfaces
		c.Attributes = def.Attributes
		c.Location = def.Location
	}
}
