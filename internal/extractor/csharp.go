package extractor

import (
	"regexp"
	"strings"

	"viewlint/internal/symbols"
	"viewlint/internal/syntax"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
)

// CSharpExtractor implements LanguageExtractor for C#.
type CSharpExtractor struct{}

func (c *CSharpExtractor) GetLanguage() *sitter.Language {
	return csharp.GetLanguage()
}

var typeDeclarations = map[string]syntax.DeclKind{
	"class_declaration":         syntax.DeclClass,
	"struct_declaration":        syntax.DeclStruct,
	"interface_declaration":     syntax.DeclInterface,
	"record_declaration":        syntax.DeclRecord,
	"record_struct_declaration": syntax.DeclRecord,
}

func (c *CSharpExtractor) Extract(root *sitter.Node, sourceCode []byte, filepath string) *FileUnit {
	w := &walker{src: sourceCode, path: filepath}
	fu := &FileUnit{
		Path:      filepath,
		Document:  &syntax.Document{Path: filepath},
		HasErrors: root.HasError(),
	}
	fileScope := &Scope{Aliases: map[string]string{}}
	fu.Document.Decls = w.walk(root, fileScope, nil, &fu.Types)
	return fu
}

type walker struct {
	src  []byte
	path string
}

func (w *walker) text(n *sitter.Node) string {
	return n.Content(w.src)
}

// walk visits children of n and returns the type declarations found at this level.
func (w *walker) walk(n *sitter.Node, scope *Scope, parent *TypeUnit, out *[]*TypeUnit) []*syntax.Declaration {
	var decls []*syntax.Declaration
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "using_directive":
			w.addUsing(child, scope)
		case "namespace_declaration":
			inner := scope.enter(w.namespaceName(child))
			body := child.ChildByFieldName("body")
			if body == nil {
				body = findChild(child, "declaration_list")
			}
			if body != nil {
				decls = append(decls, w.walk(body, inner, parent, out)...)
			}
		case "file_scoped_namespace_declaration":
			// applies to everything that follows in the file
			*scope = *scope.enter(w.namespaceName(child))
			decls = append(decls, w.walk(child, scope, parent, out)...)
		default:
			if kind, ok := typeDeclarations[child.Type()]; ok {
				if d := w.typeDeclaration(child, kind, scope, parent, out); d != nil {
					decls = append(decls, d)
				}
				continue
			}
			if child.Type() == "declaration_list" || child.Type() == "ERROR" {
				decls = append(decls, w.walk(child, scope, parent, out)...)
			}
		}
	}
	return decls
}

func (w *walker) namespaceName(n *sitter.Node) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return compact(w.text(name))
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "identifier", "qualified_name":
			return compact(w.text(child))
		}
	}
	return ""
}

var usingRe = regexp.MustCompile(`^(?:global\s+)?using\s+(static\s+)?(?:(\w+)\s*=\s*)?([^;]+?)\s*;?$`)

func (w *walker) addUsing(n *sitter.Node, scope *Scope) {
	m := usingRe.FindStringSubmatch(strings.TrimSpace(w.text(n)))
	if m == nil || m[1] != "" {
		return
	}
	target := strings.TrimPrefix(compact(m[3]), "global::")
	if m[2] != "" {
		scope.Aliases[m[2]] = target
		return
	}
	scope.Usings = append(scope.Usings, target)
}

// enter returns a child scope for a nested namespace.
func (s *Scope) enter(ns string) *Scope {
	child := &Scope{
		Namespace:  ns,
		Usings:     append([]string(nil), s.Usings...),
		Aliases:    make(map[string]string, len(s.Aliases)),
		Containers: append([]string(nil), s.Containers...),
	}
	if s.Namespace != "" && ns != "" {
		child.Namespace = s.Namespace + "." + ns
	} else if ns == "" {
		child.Namespace = s.Namespace
	}
	for k, v := range s.Aliases {
		child.Aliases[k] = v
	}
	return child
}

func (s *Scope) snapshot() Scope {
	cp := *s.enter("")
	return cp
}

type slot uint8

const (
	slotAttribute slot = iota
	slotModifier
	slotKeyword
	slotIdentifier
	slotTypeParams
	slotParams
	slotColon
	slotBase
	slotSeparator
	slotConstraint
	slotOpen
	slotMember
	slotClose
	slotSemicolon
)

type elem struct {
	slot       slot
	start, end int
}

// typeDeclaration builds the full-fidelity node for n. Comments and
// preprocessor lines between children are not elements; they end up in the
// trivia of the preceding token.
func (w *walker) typeDeclaration(n *sitter.Node, kind syntax.DeclKind, scope *Scope, parent *TypeUnit, out *[]*TypeUnit) *syntax.Declaration {
	var elems []elem
	add := func(s slot, node *sitter.Node) {
		elems = append(elems, elem{slot: s, start: int(node.StartByte()), end: int(node.EndByte())})
	}

	unit := &TypeUnit{Kind: symbols.KindClass, Filepath: w.path, Parent: parent}
	switch kind {
	case syntax.DeclStruct:
		unit.Kind = symbols.KindStruct
	case syntax.DeclInterface:
		unit.Kind = symbols.KindInterface
	}

	var body *sitter.Node
	var nameNode *sitter.Node
	seenKeyword := false
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		t := child.Type()
		switch {
		case isTrivia(t):
			continue
		case t == "attribute_list":
			add(slotAttribute, child)
			unit.Attributes = append(unit.Attributes, w.attributes(child)...)
		case t == "modifier" || (!seenKeyword && !child.IsNamed() && !isKeyword(t)):
			add(slotModifier, child)
			unit.Modifiers = append(unit.Modifiers, compact(w.text(child)))
		case isKeyword(t) && nameNode == nil:
			if seenKeyword {
				// `record struct` / `record class`: one keyword token
				elems[len(elems)-1].end = int(child.EndByte())
				if t == "struct" {
					unit.Kind = symbols.KindStruct
				}
				continue
			}
			seenKeyword = true
			add(slotKeyword, child)
		case t == "identifier" && nameNode == nil:
			nameNode = child
			add(slotIdentifier, child)
		case t == "type_parameter_list":
			add(slotTypeParams, child)
			unit.Arity = countTopLevel(strings.Trim(w.text(child), "<> \t\r\n"))
		case t == "parameter_list":
			add(slotParams, child)
		case t == "base_list":
			w.baseList(child, add, unit)
		case t == "type_parameter_constraints_clause":
			add(slotConstraint, child)
		case t == "declaration_list":
			body = child
			w.body(child, add)
		case t == ";":
			add(slotSemicolon, child)
		}
	}
	if nameNode == nil || len(elems) == 0 {
		return nil
	}

	decl := assemble(kind, elems, w.src)
	decl.IdentifierSpan = syntax.Span{Start: int(nameNode.StartByte()), End: int(nameNode.EndByte())}

	unit.Name = w.text(nameNode)
	unit.Decl = decl
	unit.Scope = scope.snapshot()
	unit.Location = symbols.Location{
		File:   w.path,
		Start:  decl.IdentifierSpan.Start,
		End:    decl.IdentifierSpan.End,
		Line:   int(nameNode.StartPoint().Row) + 1,
		Column: int(nameNode.StartPoint().Column) + 1,
	}
	unit.StartLine = lineOf(w.src, decl.Span.Start)
	unit.EndLine = lineOf(w.src, decl.Span.End)
	*out = append(*out, unit)

	if body != nil {
		inner := scope.snapshot()
		inner.Containers = append(inner.Containers, unit.Name)
		decl.Children = w.walk(body, &inner, unit, out)
	}
	return decl
}

func (w *walker) baseList(n *sitter.Node, add func(slot, *sitter.Node), unit *TypeUnit) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		t := child.Type()
		switch {
		case isTrivia(t):
			continue
		case t == ":":
			add(slotColon, child)
		case t == ",":
			add(slotSeparator, child)
		case t == "argument_list" && len(unit.Bases) > 0:
			// `Base(x)` in a record base list belongs to the preceding entry
			add(slotBase, child)
		default:
			add(slotBase, child)
			unit.Bases = append(unit.Bases, baseTypeText(w.text(child)))
		}
	}
}

func (w *walker) body(n *sitter.Node, add func(slot, *sitter.Node)) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		t := child.Type()
		switch {
		case isTrivia(t):
			continue
		case t == "{":
			add(slotOpen, child)
		case t == "}":
			add(slotClose, child)
		default:
			add(slotMember, child)
		}
	}
}

var (
	typeofRe     = regexp.MustCompile(`^typeof\s*\(\s*([\s\S]+?)\s*\)$`)
	namedPropRe  = regexp.MustCompile(`^\w+\s*=[^=]`)
	namedParamRe = regexp.MustCompile(`^\w+\s*:\s*`)
)

func (w *walker) attributes(list *sitter.Node) []AttributeRef {
	var attrs []AttributeRef
	for i := 0; i < int(list.NamedChildCount()); i++ {
		a := list.NamedChild(i)
		if a.Type() != "attribute" {
			continue
		}
		name := a.ChildByFieldName("name")
		if name == nil && a.NamedChildCount() > 0 {
			name = a.NamedChild(0)
		}
		if name == nil {
			continue
		}
		ref := AttributeRef{Name: compact(w.text(name))}
		if args := findChild(a, "attribute_argument_list"); args != nil {
			for j := 0; j < int(args.NamedChildCount()); j++ {
				arg := args.NamedChild(j)
				if arg.Type() != "attribute_argument" {
					continue
				}
				if parsed, ok := parseArg(w.text(arg)); ok {
					ref.Args = append(ref.Args, parsed)
				}
			}
		}
		attrs = append(attrs, ref)
	}
	return attrs
}

// parseArg classifies a positional argument. Named property assignments are
// not constructor arguments and are dropped.
func parseArg(text string) (ArgRef, bool) {
	text = strings.TrimSpace(text)
	if namedPropRe.MatchString(text) {
		return ArgRef{}, false
	}
	text = namedParamRe.ReplaceAllString(text, "")
	if m := typeofRe.FindStringSubmatch(text); m != nil {
		return ArgRef{Kind: ArgTypeOf, Text: compact(m[1])}, true
	}
	return ArgRef{Kind: ArgLiteral, Text: text}, true
}

// assemble turns ordered elements into tokens. Each token's trivia is the gap
// up to the next element, and the declaration span runs from the first
// element to the last, so Render reproduces the source slice.
func assemble(kind syntax.DeclKind, elems []elem, src []byte) *syntax.Declaration {
	d := &syntax.Declaration{
		Kind: kind,
		Span: syntax.Span{Start: elems[0].start, End: elems[len(elems)-1].end},
	}
	var bl *syntax.BaseList
	for i, e := range elems {
		tok := syntax.Token{Text: string(src[e.start:e.end])}
		if i+1 < len(elems) {
			tok.Trivia = string(src[e.end:elems[i+1].start])
		}
		switch e.slot {
		case slotAttribute:
			d.Attributes = append(d.Attributes, tok)
		case slotModifier:
			d.Modifiers = append(d.Modifiers, tok)
		case slotKeyword:
			d.Keyword = tok
		case slotIdentifier:
			d.Identifier = tok
		case slotTypeParams:
			d.TypeParameters = &tok
		case slotParams:
			d.Parameters = &tok
		case slotColon:
			bl = &syntax.BaseList{Colon: tok}
			d.BaseList = bl
		case slotBase:
			if bl == nil {
				continue
			}
			if i > 0 && elems[i-1].slot == slotBase && len(bl.Types) > 0 {
				// argument list glued to the previous entry
				last := &bl.Types[len(bl.Types)-1]
				last.Text += last.Trivia + tok.Text
				last.Trivia = tok.Trivia
				continue
			}
			bl.Types = append(bl.Types, tok)
		case slotSeparator:
			if bl != nil {
				bl.Separators = append(bl.Separators, tok)
			}
		case slotConstraint:
			d.Constraints = append(d.Constraints, tok)
		case slotOpen:
			d.OpenBrace = tok
		case slotMember:
			d.Members = append(d.Members, tok)
		case slotClose:
			d.CloseBrace = tok
		case slotSemicolon:
			d.Semicolon = &tok
		}
	}
	return d
}

func isTrivia(t string) bool {
	return t == "comment" || strings.HasPrefix(t, "preproc")
}

func isKeyword(t string) bool {
	switch t {
	case "class", "struct", "interface", "record":
		return true
	}
	return false
}

func findChild(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

// baseTypeText strips a primary-constructor argument list from a base entry.
func baseTypeText(s string) string {
	s = compact(s)
	depth := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case '(':
			if depth == 0 {
				return strings.TrimSpace(s[:i])
			}
		}
	}
	return s
}

// countTopLevel counts comma separated items outside angle brackets.
func countTopLevel(s string) int {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	n, depth := 1, 0
	for _, r := range s {
		switch r {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				n++
			}
		}
	}
	return n
}

var spaceRe = regexp.MustCompile(`\s+`)

// compact removes whitespace around punctuation in a type or name.
func compact(s string) string {
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
	for _, p := range []string{".", "<", ">", ",", "::", "?", "[", "]"} {
		s = strings.ReplaceAll(s, " "+p, p)
		s = strings.ReplaceAll(s, p+" ", p)
	}
	return strings.ReplaceAll(s, ",", ", ")
}

func lineOf(src []byte, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	line := 1
	for _, b := range src[:offset] {
		if b == '\n' {
			line++
		}
	}
	return line
}
