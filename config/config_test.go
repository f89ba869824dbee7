package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termfx/fshlint/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDiscoverPrefersMakircJSONOverOthers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "maki.yaml", "{}")
	writeFile(t, dir, ".makirc.json", "{}")

	found, err := config.Discover(dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, ".makirc.json"), found)
}

func TestDiscoverWalksUpToParent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "maki.json", "{}")
	child := filepath.Join(root, "nested", "deeper")
	require.NoError(t, os.MkdirAll(child, 0o755))

	found, err := config.Discover(child)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "maki.json"), found)
}

func TestDiscoverReturnsEmptyWhenNothingFound(t *testing.T) {
	dir := t.TempDir()
	found, err := config.Discover(dir)
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestLoadStripsJSONCComments(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "maki.json", `{
		// top-level comment
		"linter": {
			"enabled": true /* inline */
		}
	}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Linter.Enabled)
	require.True(t, *cfg.Linter.Enabled)
}

func TestLoadResolvesExtendsChainChildWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.json", `{
		"linter": { "enabled": false, "rules": {"a": "error"} },
		"files": { "include": ["base/**"] }
	}`)
	child := writeFile(t, dir, "maki.json", `{
		"extends": "base.json",
		"linter": { "enabled": true, "rules": {"b": "warn"} },
		"files": { "include": ["child/**"] }
	}`)

	cfg, err := config.Load(child)
	require.NoError(t, err)
	require.True(t, *cfg.Linter.Enabled)
	require.Equal(t, "error", cfg.Linter.Rules["a"])
	require.Equal(t, "warn", cfg.Linter.Rules["b"])
	require.ElementsMatch(t, []string{"base/**", "child/**"}, cfg.Files.Include)
}

func TestLoadDetectsExtendsCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"extends": "b.json"}`)
	bPath := writeFile(t, dir, "b.json", `{"extends": "a.json"}`)

	_, err := config.Load(bPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "circular")
}

func TestLoadRejectsInvalidGlob(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "maki.json", `{"files": {"include": ["["]}}`)

	_, err := config.Load(path)
	require.Error(t, err)
}
