package classifier

import (
	"fmt"
	"strings"
)

// Category is the single contract violation a type exhibits, if any.
type Category uint8

const (
	None Category = iota
	MustBeClass
	MustInheritRequiredBase
	RedundantBaseInterfaceParameterization
	MustDeclareRequiredAttribute
)

// Categories lists every violation category in code order.
var Categories = []Category{
	MustBeClass,
	MustInheritRequiredBase,
	RedundantBaseInterfaceParameterization,
	MustDeclareRequiredAttribute,
}

type descriptor struct {
	code    string
	title   string
	message string
	fix     string
}

var descriptors = map[Category]descriptor{
	MustBeClass: {
		code:    "MV001",
		title:   "View must be a class",
		message: "View '%s' must be declared as a class",
		fix:     "Convert struct to class",
	},
	MustInheritRequiredBase: {
		code:    "MV002",
		title:   "View must inherit MonoBehaviour",
		message: "View '%s' must inherit UnityEngine.MonoBehaviour",
		fix:     "Inherit MonoBehaviour",
	},
	RedundantBaseInterfaceParameterization: {
		code:    "MV003",
		title:   "View implements the non-generic IView",
		message: "View '%s' implements the non-generic IView; implement IView<T> instead",
	},
	MustDeclareRequiredAttribute: {
		code:    "MV004",
		title:   "View must require ViewGameObject",
		message: "View '%s' must declare [RequireComponent(typeof(ViewGameObject))]",
	},
}

// Code returns the stable diagnostic code, or "" for None.
func (c Category) Code() string {
	return descriptors[c].code
}

// Title is the short diagnostic title.
func (c Category) Title() string {
	return descriptors[c].title
}

// Message renders the diagnostic message for the offending type.
func (c Category) Message(typeName string) string {
	d, ok := descriptors[c]
	if !ok {
		return ""
	}
	return fmt.Sprintf(d.message, typeName)
}

// FixTitle is the title of the automated fix, or "" when none exists.
func (c Category) FixTitle() string {
	return descriptors[c].fix
}

// Fixable reports whether an automated patch recipe exists for c.
func (c Category) Fixable() bool {
	return descriptors[c].fix != ""
}

func (c Category) String() string {
	switch c {
	case None:
		return "None"
	case MustBeClass:
		return "MustBeClass"
	case MustInheritRequiredBase:
		return "MustInheritRequiredBase"
	case RedundantBaseInterfaceParameterization:
		return "RedundantBaseInterfaceParameterization"
	case MustDeclareRequiredAttribute:
		return "MustDeclareRequiredAttribute"
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// ParseCode maps a diagnostic code such as "MV002" back to its category.
func ParseCode(code string) (Category, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range Categories {
		if c.Code() == code {
			return c, nil
		}
	}
	return None, fmt.Errorf("unknown diagnostic code %q", code)
}
