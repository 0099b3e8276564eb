// Package contract holds the fixed identities of the view contract.
package contract

const (
	// ViewNamespace contains the marker interface and the companion type.
	ViewNamespace = "Views"
	// Marker is the generic interface whose implementation activates the contract.
	Marker = "IView"
	// Companion is the type the dependency attribute must reference.
	Companion = "ViewGameObject"

	// EngineNamespace contains the runtime base class and the dependency attribute.
	EngineNamespace = "UnityEngine"
	// RequiredBase is the runtime base class concrete views inherit.
	RequiredBase = "MonoBehaviour"
	// DependencyAttribute declares a required companion component.
	DependencyAttribute = "RequireComponent"
)
