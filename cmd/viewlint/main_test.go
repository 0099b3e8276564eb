package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"viewlint/internal/fix"
	"viewlint/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hud = `using UnityEngine;
using Views;

namespace Game
{
    public struct Hud : IView<Model> { }

    public class Menu : IView<Model>
    {
    }

    public class Model { }
}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	// flag variables survive between executions
	checkSince, checkFormat, checkNoSave = "", "", false
	fixCode, fixDryRun, fixDiff = "", false, false
	historyLimit, historyRun = 10, ""
	dbPath = ""
	err := rootCmd.Execute()
	return out.String(), err
}

func project(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, "Assets", "Hud.cs")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(hud), 0o644))
	return root, path
}

func TestCheck_JSON(t *testing.T) {
	root, _ := project(t)
	out, err := execute(t, "check", root, "--format", "json", "--no-save", "--config", filepath.Join(root, "none.yaml"))
	assert.ErrorIs(t, err, errViolations)

	var doc report.DiagnosticsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Equal(t, 2, doc.Count)
	assert.Equal(t, "MV001", doc.Diagnostics[0].Code)
	assert.Equal(t, filepath.Join("Assets", "Hud.cs"), doc.Diagnostics[0].Location.File)
	assert.Equal(t, "MV002", doc.Diagnostics[1].Code)
}

func TestFix_ThenCheckAndHistory(t *testing.T) {
	root, path := project(t)
	db := filepath.Join(t.TempDir(), "runs.db")
	cfgPath := filepath.Join(root, "none.yaml")

	out, err := execute(t, "fix", root, "--dry-run", "--diff", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "would fix MV001 Hud")
	assert.Contains(t, out, "+    public class Hud : IView<Model> { }")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, hud, string(data), "dry run leaves the file alone")

	_, err = execute(t, "fix", root, "--config", cfgPath)
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "public class Hud : IView<Model> { }")
	assert.Contains(t, string(data), "public class Menu : UnityEngine.MonoBehaviour, IView<Model>\n    {")

	// Hud still extends object after the first pass; the second pass inherits the base
	_, err = execute(t, "fix", root, "--config", cfgPath)
	require.NoError(t, err)

	out, err = execute(t, "check", root, "--db", db, "--config", cfgPath)
	assert.ErrorIs(t, err, errViolations, "MV004 has no automated fix")
	assert.Contains(t, out, "MV004")
	assert.NotContains(t, out, "MV001")
	assert.NotContains(t, out, "MV002")

	out, err = execute(t, "history", "--db", db, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "PROBLEMS")
}

func TestFix_RejectsUnfixableCode(t *testing.T) {
	root, _ := project(t)
	_, err := execute(t, "fix", root, "--code", "MV003", "--config", filepath.Join(root, "none.yaml"))
	assert.Error(t, err)
}

const nestedViews = `using UnityEngine;
using Views;

namespace Game
{
    public class Shell : IView<Shell>
    {
        public struct Slot : IView<Shell> { }
    }
}
`

func TestFix_ReportsSkippedNestedFix(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Shell.cs")
	require.NoError(t, os.WriteFile(path, []byte(nestedViews), 0o644))

	out, err := execute(t, "fix", root, "--dry-run", "--config", filepath.Join(root, "none.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "would fix MV002 Shell")
	assert.Contains(t, out, "skipped MV001 Slot")
}

func TestReportFixes_AllSkippedFails(t *testing.T) {
	var out bytes.Buffer
	result := &fix.Result{Skipped: []fix.SkippedFix{{
		Code: "MV002", TypeName: "Solo", Path: "/work/Solo.cs", Line: 3,
		Reason: "expected class, found record Solo",
	}}}
	err := reportFixes(&out, func(p string) string { return p }, result, fix.ErrNoFixes)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "/work/Solo.cs:3: skipped MV002 Solo: expected class, found record Solo")
	assert.NotContains(t, out.String(), "nothing to fix")

	out.Reset()
	require.NoError(t, reportFixes(&out, func(p string) string { return p }, &fix.Result{}, fix.ErrNoFixes))
	assert.Equal(t, "nothing to fix\n", out.String())
}
