package binder

import (
	"fmt"
	"strings"
)

// TypeRef is a parsed type reference as written in source.
type TypeRef struct {
	// Qualifier holds the dotted segments before the last one.
	Qualifier []string
	Name      string
	Args      []TypeRef
	Global    bool // written with the global:: prefix
}

// Arity is the number of generic arguments.
func (r TypeRef) Arity() int {
	return len(r.Args)
}

// Dotted returns the reference without generic arguments.
func (r TypeRef) Dotted() string {
	return strings.Join(append(append([]string(nil), r.Qualifier...), r.Name), ".")
}

func (r TypeRef) String() string {
	s := r.Dotted()
	if len(r.Args) == 0 {
		return s
	}
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = a.String()
	}
	return s + "<" + strings.Join(args, ", ") + ">"
}

// ParseTypeRef parses names like `A.B.C<int, List<T>>` and `global::X.Y`.
// Nullable and array suffixes are dropped.
func ParseTypeRef(text string) (TypeRef, error) {
	s := strings.TrimSpace(text)
	var ref TypeRef
	if rest, ok := strings.CutPrefix(s, "global::"); ok {
		ref.Global = true
		s = strings.TrimSpace(rest)
	} else if i := strings.Index(s, "::"); i >= 0 {
		// extern alias qualifier
		s = strings.TrimSpace(s[i+2:])
	}
	s = strings.TrimRight(s, "?[] \t\r\n")
	if s == "" {
		return TypeRef{}, fmt.Errorf("empty type reference %q", text)
	}

	segments, err := splitTopLevel(s, '.')
	if err != nil {
		return TypeRef{}, fmt.Errorf("parse %q: %w", text, err)
	}
	for i, seg := range segments {
		seg = strings.TrimSpace(seg)
		name, argText, generic := strings.Cut(seg, "<")
		name = strings.TrimSpace(name)
		if name == "" {
			return TypeRef{}, fmt.Errorf("parse %q: empty segment", text)
		}
		if i < len(segments)-1 {
			// generic arguments on outer segments are not tracked
			ref.Qualifier = append(ref.Qualifier, name)
			continue
		}
		ref.Name = name
		if !generic {
			continue
		}
		argText = strings.TrimSpace(argText)
		if !strings.HasSuffix(argText, ">") {
			return TypeRef{}, fmt.Errorf("parse %q: unbalanced generic arguments", text)
		}
		parts, err := splitTopLevel(argText[:len(argText)-1], ',')
		if err != nil {
			return TypeRef{}, fmt.Errorf("parse %q: %w", text, err)
		}
		for _, p := range parts {
			if strings.TrimSpace(p) == "" {
				// open generic `IView<>`
				ref.Args = append(ref.Args, TypeRef{})
				continue
			}
			arg, err := ParseTypeRef(p)
			if err != nil {
				return TypeRef{}, err
			}
			ref.Args = append(ref.Args, arg)
		}
	}
	return ref, nil
}

func splitTopLevel(s string, sep rune) ([]string, error) {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced %q", r)
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets")
	}
	return append(parts, s[start:]), nil
}

// key is the lookup key of a type: dotted name plus "`N" for generic arity.
func key(dotted string, arity int) string {
	if arity == 0 {
		return dotted
	}
	return fmt.Sprintf("%s`%d", dotted, arity)
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
