package fix

import (
	"fmt"
	"sort"

	"viewlint/internal/classifier"
	"viewlint/internal/patch"
	"viewlint/internal/syntax"
)

// Action is a fix registered under a diagnostic code.
type Action struct {
	Code     string
	Title    string
	Category classifier.Category
	Kind     syntax.DeclKind
}

// Apply runs the action's recipe on decl.
func (a Action) Apply(decl *syntax.Declaration, r patch.Resolver) (*syntax.Declaration, error) {
	return ApplyFix(a.Category, decl, r)
}

// Registry maps diagnostic codes to fix actions.
type Registry struct {
	actions map[string]Action
}

// NewRegistry registers an action for every fixable category.
func NewRegistry() *Registry {
	r := &Registry{actions: make(map[string]Action)}
	for _, cat := range classifier.Categories {
		if !cat.Fixable() {
			continue
		}
		kind, err := ExpectedKind(cat)
		if err != nil {
			continue
		}
		r.actions[cat.Code()] = Action{
			Code:     cat.Code(),
			Title:    cat.FixTitle(),
			Category: cat,
			Kind:     kind,
		}
	}
	return r
}

// Lookup returns the action for code, or ErrNoFix.
func (r *Registry) Lookup(code string) (Action, error) {
	a, ok := r.actions[code]
	if !ok {
		return Action{}, fmt.Errorf("%s: %w", code, ErrNoFix)
	}
	return a, nil
}

// Codes lists the registered codes in order.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.actions))
	for c := range r.actions {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
