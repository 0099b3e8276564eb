// Package classifier decides which contract violation, if any, a bound type has.
package classifier

import (
	"viewlint/internal/contract"
	"viewlint/internal/predicate"
	"viewlint/internal/symbols"
)

type rule struct {
	name   string
	guard  func(t *symbols.Type) bool
	result Category
}

// rules is evaluated top to bottom; the first matching guard decides.
// Later rows may assume every earlier guard was false.
var rules = []rule{
	{
		name: "not-a-view",
		guard: func(t *symbols.Type) bool {
			return !predicate.ImplementsInterface(t, contract.ViewNamespace, contract.Marker)
		},
		result: None,
	},
	{
		name: "raw-marker",
		guard: func(t *symbols.Type) bool {
			return predicate.ImplementsUnparameterizedInterface(t, contract.ViewNamespace, contract.Marker)
		},
		result: RedundantBaseInterfaceParameterization,
	},
	{
		name:   "not-a-class",
		guard:  func(t *symbols.Type) bool { return t.Kind != symbols.KindClass },
		result: MustBeClass,
	},
	{
		name:   "abstract",
		guard:  func(t *symbols.Type) bool { return t.Abstract },
		result: None,
	},
	{
		name: "missing-base",
		guard: func(t *symbols.Type) bool {
			return !predicate.IsDerivedFrom(t, contract.EngineNamespace, contract.RequiredBase)
		},
		result: MustInheritRequiredBase,
	},
	{
		name: "missing-attribute",
		guard: func(t *symbols.Type) bool {
			return !predicate.HasAttributeReferencingType(t,
				contract.EngineNamespace, contract.DependencyAttribute,
				contract.ViewNamespace, contract.Companion)
		},
		result: MustDeclareRequiredAttribute,
	},
}

// Classify returns exactly one category for t. A nil type is None.
func Classify(t *symbols.Type) Category {
	cat, _ := explain(t)
	return cat
}

// Explain is Classify plus the name of the deciding rule ("compliant" when
// no rule matched).
func Explain(t *symbols.Type) (Category, string) {
	return explain(t)
}

func explain(t *symbols.Type) (Category, string) {
	if t == nil {
		return None, "nil"
	}
	for _, r := range rules {
		if r.guard(t) {
			return r.result, r.name
		}
	}
	return None, "compliant"
}
