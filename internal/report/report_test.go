package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"viewlint/internal/diag"
	"viewlint/internal/symbols"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hudSource = "namespace Game\n{\n    public struct Hud : Views.IView<Model> { }\n}\n"

func testBag() *diag.Bag {
	bag := diag.NewBag(0)
	start := strings.Index(hudSource, "Hud")
	bag.Add(diag.Diagnostic{
		Code:     "MV001",
		Severity: diag.SevError,
		TypeName: "Hud",
		Message:  "View 'Hud' must be declared as a class",
		Location: symbols.Location{File: "/work/Assets/Hud.cs", Start: start, End: start + 3, Line: 3, Column: 19},
		Fixable:  true,
	})
	bag.Add(diag.Diagnostic{
		Code:     "MV004",
		Severity: diag.SevError,
		TypeName: "Menu",
		Message:  "View 'Menu' must declare [RequireComponent(typeof(ViewGameObject))]",
		Location: symbols.Location{File: "/work/Assets/Menu.cs", Line: 7, Column: 18},
	})
	return bag
}

func rel(p string) string { return strings.TrimPrefix(p, "/work/") }

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, testBag(), PrettyOpts{
		Rel: rel,
		Source: func(path string) []byte {
			if path == "/work/Assets/Hud.cs" {
				return []byte(hudSource)
			}
			return nil
		},
	})

	want := "Assets/Hud.cs:3:19: error MV001: View 'Hud' must be declared as a class [fixable]\n" +
		"        public struct Hud : Views.IView<Model> { }\n" +
		"                      ^~~\n" +
		"Assets/Menu.cs:7:18: error MV004: View 'Menu' must declare [RequireComponent(typeof(ViewGameObject))]\n"
	assert.Equal(t, want, buf.String())
}

func TestPretty_Color(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, testBag(), PrettyOpts{Color: true})
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "MV001")
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, testBag(), 2)
	assert.Equal(t, "2 problem(s) in 2 file(s), 1 fixable\n", buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, testBag(), JSONOpts{Rel: rel}))

	var out DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "error", out.Diagnostics[0].Severity)
	assert.Equal(t, "Assets/Hud.cs", out.Diagnostics[0].Location.File)
	assert.True(t, out.Diagnostics[0].Fixable)
	assert.Equal(t, "Menu", out.Diagnostics[1].Type)
}

func TestJSON_EmptyBagIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, diag.NewBag(0), JSONOpts{}))
	assert.Contains(t, buf.String(), `"diagnostics": []`)
}
