package predicate

import (
	"testing"

	"viewlint/internal/symbols"

	"github.com/stretchr/testify/assert"
)

func engineChain() *symbols.Type {
	object := &symbols.Type{Kind: symbols.KindClass, Name: "Object", Namespace: "UnityEngine"}
	component := &symbols.Type{Kind: symbols.KindClass, Name: "Component", Namespace: "UnityEngine", Base: object}
	behaviour := &symbols.Type{Kind: symbols.KindClass, Name: "Behaviour", Namespace: "UnityEngine", Base: component}
	return &symbols.Type{Kind: symbols.KindClass, Name: "MonoBehaviour", Namespace: "UnityEngine", Base: behaviour}
}

func TestIsDerivedFrom(t *testing.T) {
	mono := engineChain()
	view := &symbols.Type{Kind: symbols.KindClass, Name: "HudView", Namespace: "Game", Base: mono}

	assert.True(t, IsDerivedFrom(view, "UnityEngine", "MonoBehaviour"))
	assert.True(t, IsDerivedFrom(view, "UnityEngine", "Object"))
	assert.True(t, IsDerivedFrom(view, "Game", "HudView"), "chain starts at the type itself")
	assert.False(t, IsDerivedFrom(view, "Game", "MonoBehaviour"), "namespace must match too")
	assert.False(t, IsDerivedFrom(nil, "UnityEngine", "MonoBehaviour"))
	assert.False(t, IsDerivedFrom(&symbols.Type{Kind: symbols.KindClass, Name: "Lonely"}, "UnityEngine", "Object"))
}

func TestIsDerivedFrom_SkipsUnresolved(t *testing.T) {
	ghost := symbols.Unresolved("MonoBehaviour")
	ghost.Namespace = "UnityEngine"
	view := &symbols.Type{Kind: symbols.KindClass, Name: "V", Base: ghost}
	assert.False(t, IsDerivedFrom(view, "UnityEngine", "MonoBehaviour"))
}

func TestIsExactType(t *testing.T) {
	mono := engineChain()
	assert.True(t, IsExactType(mono, "UnityEngine", "MonoBehaviour"))
	assert.False(t, IsExactType(mono, "UnityEngine", "Behaviour"), "no chain walk")
	assert.False(t, IsExactType(nil, "UnityEngine", "MonoBehaviour"))
}

func TestIsExactType_InnermostNamespace(t *testing.T) {
	nested := &symbols.Type{Kind: symbols.KindInterface, Name: "IView", Namespace: "Game.Views"}
	assert.True(t, IsExactType(nested, "Views", "IView"))
	assert.False(t, IsExactType(nested, "Game", "IView"))

	view := &symbols.Type{Kind: symbols.KindClass, Name: "HudView", Namespace: "Game.UI", Interfaces: []*symbols.Type{nested}}
	assert.True(t, ImplementsInterface(view, "Views", "IView"))
	assert.True(t, ImplementsUnparameterizedInterface(view, "Views", "IView"))
}

func TestImplementsInterface(t *testing.T) {
	raw := &symbols.Type{Kind: symbols.KindInterface, Name: "IView", Namespace: "Views"}
	generic := &symbols.Type{Kind: symbols.KindInterface, Name: "IView", Namespace: "Views", Arity: 1, Interfaces: []*symbols.Type{raw}}
	model := &symbols.Type{Kind: symbols.KindClass, Name: "HudModel", Namespace: "Game"}
	constructed := generic.Construct([]*symbols.Type{model})

	hudView := &symbols.Type{Kind: symbols.KindInterface, Name: "IHudView", Namespace: "Game", Interfaces: []*symbols.Type{constructed}}
	indirect := &symbols.Type{Kind: symbols.KindClass, Name: "Hud", Interfaces: []*symbols.Type{hudView}}
	direct := &symbols.Type{Kind: symbols.KindClass, Name: "Direct", Interfaces: []*symbols.Type{constructed}}
	other := &symbols.Type{Kind: symbols.KindClass, Name: "Other", Interfaces: []*symbols.Type{
		{Kind: symbols.KindInterface, Name: "IDisposable", Namespace: "System"},
	}}

	assert.True(t, ImplementsInterface(direct, "Views", "IView"))
	assert.True(t, ImplementsInterface(indirect, "Views", "IView"), "interface inheritance is transitive")
	assert.False(t, ImplementsInterface(other, "Views", "IView"))
	assert.False(t, ImplementsInterface(nil, "Views", "IView"))
}

func TestImplementsInterface_CyclicInterfaces(t *testing.T) {
	a := &symbols.Type{Kind: symbols.KindInterface, Name: "IA", Namespace: "X"}
	b := &symbols.Type{Kind: symbols.KindInterface, Name: "IB", Namespace: "X", Interfaces: []*symbols.Type{a}}
	a.Interfaces = []*symbols.Type{b}
	c := &symbols.Type{Kind: symbols.KindClass, Name: "C", Interfaces: []*symbols.Type{a}}

	assert.False(t, ImplementsInterface(c, "Views", "IView"))
	assert.True(t, ImplementsInterface(c, "X", "IB"))
}

func TestImplementsUnparameterizedInterface(t *testing.T) {
	raw := &symbols.Type{Kind: symbols.KindInterface, Name: "IView", Namespace: "Views"}
	generic := &symbols.Type{Kind: symbols.KindInterface, Name: "IView", Namespace: "Views", Arity: 1, Interfaces: []*symbols.Type{raw}}
	constructed := generic.Construct([]*symbols.Type{{Kind: symbols.KindClass, Name: "M"}})
	via := &symbols.Type{Kind: symbols.KindInterface, Name: "IRawView", Namespace: "Game", Interfaces: []*symbols.Type{raw}}

	assert.True(t, ImplementsUnparameterizedInterface(&symbols.Type{Interfaces: []*symbols.Type{raw}}, "Views", "IView"))
	assert.False(t, ImplementsUnparameterizedInterface(&symbols.Type{Interfaces: []*symbols.Type{constructed}}, "Views", "IView"))
	assert.False(t, ImplementsUnparameterizedInterface(&symbols.Type{Interfaces: []*symbols.Type{via}}, "Views", "IView"), "not transitive")
}

func TestHasAttributeReferencingType(t *testing.T) {
	attrBase := &symbols.Type{Kind: symbols.KindClass, Name: "Attribute", Namespace: "System"}
	require := &symbols.Type{Kind: symbols.KindClass, Name: "RequireComponent", Namespace: "UnityEngine", Base: attrBase}
	serializable := &symbols.Type{Kind: symbols.KindClass, Name: "Serializable", Namespace: "System", Base: attrBase}
	companion := &symbols.Type{Kind: symbols.KindClass, Name: "ViewGameObject", Namespace: "Views", Base: engineChain()}
	derivedCompanion := &symbols.Type{Kind: symbols.KindClass, Name: "HudObject", Namespace: "Game", Base: companion}
	rigidbody := &symbols.Type{Kind: symbols.KindClass, Name: "Rigidbody", Namespace: "UnityEngine"}

	tests := []struct {
		name  string
		attrs []symbols.Attribute
		want  bool
	}{
		{"no attributes", nil, false},
		{"exact companion", []symbols.Attribute{{Class: require, Args: []symbols.Arg{symbols.TypeArg(companion)}}}, true},
		{"derived companion", []symbols.Attribute{{Class: require, Args: []symbols.Arg{symbols.TypeArg(derivedCompanion)}}}, true},
		{"companion in second argument", []symbols.Attribute{{Class: require, Args: []symbols.Arg{symbols.TypeArg(rigidbody), symbols.TypeArg(companion)}}}, true},
		{"wrong component", []symbols.Attribute{{Class: require, Args: []symbols.Arg{symbols.TypeArg(rigidbody)}}}, false},
		{"wrong attribute", []symbols.Attribute{{Class: serializable, Args: []symbols.Arg{symbols.TypeArg(companion)}}}, false},
		{"unresolved attribute class", []symbols.Attribute{{Class: symbols.Unresolved("RequireComponent"), Args: []symbols.Arg{symbols.TypeArg(companion)}}}, false},
		{"unresolved and primitive args skipped", []symbols.Attribute{{Class: require, Args: []symbols.Arg{
			symbols.TypeArg(symbols.Unresolved("Missing")),
			symbols.PrimitiveArg("\"ViewGameObject\""),
			symbols.TypeArg(companion),
		}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := &symbols.Type{Kind: symbols.KindClass, Name: "V", Attributes: tt.attrs}
			assert.Equal(t, tt.want, HasAttributeReferencingType(view, "UnityEngine", "RequireComponent", "Views", "ViewGameObject"))
		})
	}
}
