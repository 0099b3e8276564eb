package crawler

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"viewlint/internal/extractor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestCrawler_ScanProject(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Assets/Hud.cs":          "namespace Game { public class Hud { } }",
		"Assets/UI/Panel.cs":     "namespace Game.UI { public struct Panel { } public interface IPanel { } }",
		"Assets/readme.md":       "not code",
		"Library/Cache.cs":       "class Cached { }",
		"obj/Debug/Generated.cs": "class Generated { }",
		"Vendor/Plugin.cs":       "class Plugin { }",
	})

	ext, err := extractor.NewExtractor("csharp")
	require.NoError(t, err)
	c := NewCrawler(ext, WithIgnored("Vendor"), WithConcurrency(2))

	var names []string
	err = c.ScanProject(context.Background(), root, func(fu *extractor.FileUnit) {
		for _, u := range fu.Types {
			names = append(names, u.Name)
		}
	})
	require.NoError(t, err)

	sort.Strings(names)
	assert.Equal(t, []string{"Hud", "IPanel", "Panel"}, names)
}

func TestCrawler_ListFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"A.cs":     "class A { }",
		"b/B.CS":   "class B { }",
		"bin/C.cs": "class C { }",
	})
	ext, err := extractor.NewExtractor("csharp")
	require.NoError(t, err)

	paths, err := NewCrawler(ext).ListFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "A.cs"), filepath.Join(root, "b", "B.CS")}, paths)
}

func TestCrawler_MissingRoot(t *testing.T) {
	ext, err := extractor.NewExtractor("csharp")
	require.NoError(t, err)
	err = NewCrawler(ext).ScanProject(context.Background(), filepath.Join(t.TempDir(), "nope"), func(*extractor.FileUnit) {})
	assert.Error(t, err)
}
