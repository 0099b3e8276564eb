package config

import (
	"os"
	"path/filepath"
	"testing"

	"viewlint/internal/binder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "viewlint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Storage.DBPath, cfg.Storage.DBPath)
	assert.Equal(t, "pretty", cfg.Output.Format)
	assert.Equal(t, 4, cfg.Analysis.Concurrency)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
project:
  root: Assets
  ignore: [Plugins, ThirdParty]
storage:
  db_path: /tmp/history.db
output:
  format: json
  color: false
analysis:
  concurrency: 8
externs:
  - name: Game.Core.ViewBase
    kind: class
    base: UnityEngine.MonoBehaviour
    abstract: true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Assets", cfg.Project.Root)
	assert.Equal(t, []string{"Plugins", "ThirdParty"}, cfg.Project.Ignore)
	assert.Equal(t, "/tmp/history.db", cfg.Storage.DBPath)
	assert.Equal(t, "json", cfg.Output.Format)
	require.NotNil(t, cfg.Output.Color)
	assert.False(t, *cfg.Output.Color)
	assert.Equal(t, 8, cfg.Analysis.Concurrency)
	assert.Equal(t, []binder.Extern{{
		Name:     "Game.Core.ViewBase",
		Kind:     "class",
		Base:     "UnityEngine.MonoBehaviour",
		Abstract: true,
	}}, cfg.Externs)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("VIEWLINT_ROOT", "/src")
	t.Setenv("VIEWLINT_FORMAT", "json")
	t.Setenv("VIEWLINT_CONCURRENCY", "2")
	t.Setenv("VIEWLINT_IGNORE", "Gen, Vendor")

	cfg, err := LoadConfig(writeConfig(t, "project:\n  root: Assets\n"))
	require.NoError(t, err)
	assert.Equal(t, "/src", cfg.Project.Root)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 2, cfg.Analysis.Concurrency)
	assert.Equal(t, []string{"Gen", "Vendor"}, cfg.Project.Ignore)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "output:\n  format: xml\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "project: [\n"))
	assert.Error(t, err)

	t.Setenv("VIEWLINT_CONCURRENCY", "many")
	_, err = LoadConfig(writeConfig(t, ""))
	assert.Error(t, err)
}
