package patch

import (
	"testing"

	"viewlint/internal/symbols"
	"viewlint/internal/syntax"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testResolver = ResolverFunc(func(text string) *symbols.Type {
	switch text {
	case "UnityEngine.MonoBehaviour", "MonoBehaviour":
		return &symbols.Type{Kind: symbols.KindClass, Name: "MonoBehaviour", Namespace: "UnityEngine"}
	case "Widget", "BaseView<HudModel>":
		return &symbols.Type{Kind: symbols.KindClass, Name: text}
	case "ISomethingElse", "IView<HudModel>", "IDisposable":
		return &symbols.Type{Kind: symbols.KindInterface, Name: text}
	}
	return symbols.Unresolved(text)
})

func classDecl(header string, bases ...string) *syntax.Declaration {
	d := &syntax.Declaration{
		Kind:       syntax.DeclClass,
		Modifiers:  []syntax.Token{{Text: "public", Trivia: " "}},
		Keyword:    syntax.Token{Text: "class", Trivia: " "},
		Identifier: syntax.Token{Text: "Hud", Trivia: header},
		OpenBrace:  syntax.Token{Text: "{", Trivia: "\n    "},
		Members:    []syntax.Token{{Text: "void Show() { }", Trivia: "\n"}},
		CloseBrace: syntax.Token{Text: "}"},
	}
	if len(bases) > 0 {
		d.Identifier.Trivia = " "
		bl := &syntax.BaseList{Colon: syntax.Token{Text: ":", Trivia: " "}}
		for i, b := range bases {
			tok := syntax.Token{Text: b}
			if i == len(bases)-1 {
				tok.Trivia = header
			} else {
				bl.Separators = append(bl.Separators, syntax.Token{Text: ",", Trivia: " "})
			}
			bl.Types = append(bl.Types, tok)
		}
		d.BaseList = bl
	}
	return d
}

func TestNormalizeBaseList(t *testing.T) {
	assert.Nil(t, NormalizeBaseList(nil))
	assert.Nil(t, NormalizeBaseList(&syntax.BaseList{Colon: syntax.Token{Text: ":"}}))
	bl := &syntax.BaseList{Types: []syntax.Token{{Text: "A"}}}
	assert.Same(t, bl, NormalizeBaseList(bl))
}

func TestRemoveFirstBaseIfClass(t *testing.T) {
	tests := []struct {
		name string
		decl *syntax.Declaration
		want string
		same bool
	}{
		{
			name: "absent list",
			decl: classDecl("\n"),
			same: true,
		},
		{
			name: "empty but present list",
			decl: func() *syntax.Declaration {
				d := classDecl(" ")
				d.BaseList = &syntax.BaseList{Colon: syntax.Token{Text: ":", Trivia: " "}}
				return d
			}(),
			same: true,
		},
		{
			name: "interface first",
			decl: classDecl("\n", "ISomethingElse", "Widget"),
			same: true,
		},
		{
			name: "unresolved first",
			decl: classDecl("\n", "Mystery", "IDisposable"),
			same: true,
		},
		{
			name: "class followed by interface",
			decl: classDecl("\n", "Widget", "ISomethingElse"),
			want: "public class Hud : ISomethingElse\n{\n    void Show() { }\n}",
		},
		{
			name: "only a class",
			decl: classDecl("\n", "Widget"),
			want: "public class Hud\n{\n    void Show() { }\n}",
		},
		{
			name: "generic class",
			decl: classDecl(" ", "BaseView<HudModel>", "IDisposable"),
			want: "public class Hud : IDisposable {\n    void Show() { }\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.decl.Render()
			got := RemoveFirstBaseIfClass(tt.decl, testResolver)
			assert.Equal(t, before, tt.decl.Render(), "input must not be mutated")
			if tt.same {
				assert.Same(t, tt.decl, got)
				return
			}
			assert.Equal(t, tt.want, got.Render())
		})
	}
}

func TestRemoveFirstBaseIfClass_NeverLeavesEmptyList(t *testing.T) {
	got := RemoveFirstBaseIfClass(classDecl(" ", "Widget"), testResolver)
	assert.Nil(t, got.BaseList)
}

func TestRemoveFirstBaseIfClass_Idempotent(t *testing.T) {
	inputs := []*syntax.Declaration{
		classDecl("\n"),
		classDecl("\n", "Widget"),
		classDecl(" ", "Widget", "ISomethingElse"),
		classDecl(" ", "ISomethingElse"),
		classDecl(" ", "Mystery"),
	}
	for _, d := range inputs {
		once := RemoveFirstBaseIfClass(d, testResolver)
		twice := RemoveFirstBaseIfClass(once, testResolver)
		assert.Equal(t, once.Render(), twice.Render())
	}
}

func TestInsertBaseAtFront(t *testing.T) {
	mono := TypeReference("UnityEngine", "MonoBehaviour")

	t.Run("absent list keeps brace placement", func(t *testing.T) {
		got := InsertBaseAtFront(classDecl("\n"), mono)
		assert.Equal(t, "public class Hud : UnityEngine.MonoBehaviour\n{\n    void Show() { }\n}", got.Render())
	})

	t.Run("existing interface shifts right", func(t *testing.T) {
		got := InsertBaseAtFront(classDecl(" ", "ISomethingElse"), mono)
		assert.Equal(t, []string{"UnityEngine.MonoBehaviour", "ISomethingElse"}, got.BaseTypes())
		assert.Equal(t, "public class Hud : UnityEngine.MonoBehaviour, ISomethingElse {\n    void Show() { }\n}", got.Render())
	})

	t.Run("order of all entries preserved", func(t *testing.T) {
		in := classDecl(" ", "ISomethingElse", "IDisposable", "IView<HudModel>")
		got := InsertBaseAtFront(in, mono)
		assert.Equal(t, append([]string{"UnityEngine.MonoBehaviour"}, in.BaseTypes()...), got.BaseTypes())
		assert.Len(t, got.BaseList.Separators, 3)
	})

	t.Run("type parameters own the header trivia", func(t *testing.T) {
		d := classDecl(" ")
		d.Identifier.Trivia = ""
		d.TypeParameters = &syntax.Token{Text: "<T>", Trivia: " "}
		got := InsertBaseAtFront(d, mono)
		assert.Equal(t, "public class Hud<T> : UnityEngine.MonoBehaviour {\n    void Show() { }\n}", got.Render())
	})
}

func TestInsertThenRemove_RoundTrip(t *testing.T) {
	mono := TypeReference("UnityEngine", "MonoBehaviour")
	inputs := []*syntax.Declaration{
		classDecl("\n"),
		classDecl(" "),
		classDecl(" ", "ISomethingElse"),
		classDecl("\n", "Widget", "ISomethingElse"),
		classDecl(" ", "IView<HudModel>", "IDisposable"),
	}
	for _, d := range inputs {
		got := RemoveFirstBaseIfClass(InsertBaseAtFront(d, mono), testResolver)
		assert.Equal(t, d.Render(), got.Render())
		if diff := cmp.Diff(d.BaseList, got.BaseList, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("base list mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestConvertValueTypeToReferenceType(t *testing.T) {
	d := &syntax.Declaration{
		Kind:           syntax.DeclStruct,
		Attributes:     []syntax.Token{{Text: "[Serializable]", Trivia: "\n"}},
		Modifiers:      []syntax.Token{{Text: "public", Trivia: " "}, {Text: "partial", Trivia: " "}},
		Keyword:        syntax.Token{Text: "struct", Trivia: "  "},
		Identifier:     syntax.Token{Text: "Hud"},
		TypeParameters: &syntax.Token{Text: "<T>", Trivia: " "},
		BaseList: &syntax.BaseList{
			Colon: syntax.Token{Text: ":", Trivia: " "},
			Types: []syntax.Token{{Text: "IView<T>", Trivia: " "}},
		},
		Constraints: []syntax.Token{{Text: "where T : new()", Trivia: "\n"}},
		OpenBrace:   syntax.Token{Text: "{", Trivia: "\n  "},
		Members:     []syntax.Token{{Text: "int a;", Trivia: "\n  "}, {Text: "int b;", Trivia: "\n"}},
		CloseBrace:  syntax.Token{Text: "}"},
	}

	got, err := ConvertValueTypeToReferenceType(d)
	require.NoError(t, err)
	assert.Equal(t, syntax.DeclClass, got.Kind)
	assert.Equal(t, syntax.Token{Text: "class", Trivia: "  "}, got.Keyword)
	assert.Equal(t, "[Serializable]\npublic partial class  Hud<T> : IView<T> where T : new()\n{\n  int a;\n  int b;\n}", got.Render())

	// everything but the keyword is identical
	opt := cmp.FilterPath(func(p cmp.Path) bool {
		s := p.String()
		return s == "Kind" || s == "Keyword.Text"
	}, cmp.Ignore())
	if diff := cmp.Diff(d, got, opt); diff != "" {
		t.Errorf("unexpected structural change (-want +got):\n%s", diff)
	}
	assert.Equal(t, syntax.DeclStruct, d.Kind, "input must not be mutated")

	_, err = ConvertValueTypeToReferenceType(classDecl(" "))
	assert.ErrorIs(t, err, ErrNotValueType)
	_, err = ConvertValueTypeToReferenceType(nil)
	assert.ErrorIs(t, err, ErrNotValueType)
}

func TestConvert_NoBaseListStaysAbsent(t *testing.T) {
	d := classDecl("\n")
	d.Kind = syntax.DeclStruct
	d.Keyword.Text = "struct"
	got, err := ConvertValueTypeToReferenceType(d)
	require.NoError(t, err)
	assert.Nil(t, got.BaseList)
	assert.Equal(t, len(d.Members), len(got.Members))
}
