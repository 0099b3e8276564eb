package binder

import (
	"fmt"
	"strings"

	"viewlint/internal/contract"
	"viewlint/internal/symbols"
)

// Extern declares a type that lives outside the scanned sources, such as a
// class from a referenced assembly.
type Extern struct {
	Name     string `yaml:"name"` // fully qualified, e.g. Game.Core.ViewBase
	Kind     string `yaml:"kind"` // class, struct or interface
	Arity    int    `yaml:"arity"`
	Base     string `yaml:"base"`
	Abstract bool   `yaml:"abstract"`
	// Interfaces are fully qualified interface names.
	Interfaces []string `yaml:"interfaces"`
}

// catalog holds types known without source: the runtime and engine types a
// view depends on, plus configured externs.
type catalog struct {
	byKey    map[string]*symbols.Type
	bySimple map[string]*symbols.Type
}

func newCatalog(externs []Extern) (*catalog, error) {
	c := &catalog{
		byKey:    make(map[string]*symbols.Type),
		bySimple: make(map[string]*symbols.Type),
	}

	object := c.add(&symbols.Type{Kind: symbols.KindClass, Namespace: "System", Name: "Object"})
	attribute := c.add(&symbols.Type{Kind: symbols.KindClass, Namespace: "System", Name: "Attribute", Abstract: true, Base: object})
	engineObject := c.add(&symbols.Type{Kind: symbols.KindClass, Namespace: contract.EngineNamespace, Name: "Object", Base: object})
	component := c.add(&symbols.Type{Kind: symbols.KindClass, Namespace: contract.EngineNamespace, Name: "Component", Base: engineObject})
	behaviour := c.add(&symbols.Type{Kind: symbols.KindClass, Namespace: contract.EngineNamespace, Name: "Behaviour", Base: component})
	c.add(&symbols.Type{Kind: symbols.KindClass, Namespace: contract.EngineNamespace, Name: contract.RequiredBase, Base: behaviour})
	c.add(&symbols.Type{Kind: symbols.KindClass, Namespace: contract.EngineNamespace, Name: "ScriptableObject", Base: engineObject})
	c.add(&symbols.Type{Kind: symbols.KindClass, Namespace: contract.EngineNamespace, Name: contract.DependencyAttribute, Base: attribute})

	marker := c.add(&symbols.Type{Kind: symbols.KindInterface, Namespace: contract.ViewNamespace, Name: contract.Marker})
	c.add(&symbols.Type{Kind: symbols.KindInterface, Namespace: contract.ViewNamespace, Name: contract.Marker, Arity: 1, Interfaces: []*symbols.Type{marker}})
	c.add(&symbols.Type{Kind: symbols.KindClass, Namespace: contract.ViewNamespace, Name: contract.Companion, Base: component})

	for _, ext := range externs {
		if err := c.addExtern(ext); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *catalog) add(t *symbols.Type) *symbols.Type {
	c.byKey[key(t.FullName(), t.Arity)] = t
	simple := key(t.Name, t.Arity)
	if _, taken := c.bySimple[simple]; !taken {
		c.bySimple[simple] = t
	}
	return t
}

func (c *catalog) addExtern(ext Extern) error {
	ref, err := ParseTypeRef(ext.Name)
	if err != nil {
		return fmt.Errorf("extern %q: %w", ext.Name, err)
	}
	kind := symbols.ParseKind(strings.ToLower(strings.TrimSpace(ext.Kind)))
	if ext.Kind == "" {
		kind = symbols.KindClass
	}
	if kind == symbols.KindError {
		return fmt.Errorf("extern %q: unknown kind %q", ext.Name, ext.Kind)
	}

	t := &symbols.Type{
		Kind:      kind,
		Namespace: strings.Join(ref.Qualifier, "."),
		Name:      ref.Name,
		Arity:     ext.Arity,
		Abstract:  ext.Abstract,
	}
	if ext.Base != "" {
		t.Base = c.lookup(ext.Base)
	} else if kind == symbols.KindClass {
		t.Base = c.byKey["System.Object"]
	}
	for _, iface := range ext.Interfaces {
		t.Interfaces = append(t.Interfaces, c.lookup(iface))
	}
	c.add(t)
	return nil
}

// lookup resolves a fully qualified name against the catalog only.
func (c *catalog) lookup(name string) *symbols.Type {
	ref, err := ParseTypeRef(name)
	if err != nil {
		return symbols.Unresolved(name)
	}
	if t, ok := c.byKey[key(ref.Dotted(), ref.Arity())]; ok {
		return t
	}
	return symbols.Unresolved(name)
}
