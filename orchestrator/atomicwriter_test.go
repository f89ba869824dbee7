package orchestrator_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termfx/fshlint/orchestrator"
)

func TestAtomicWriterWritesNewFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	aw := orchestrator.NewAtomicWriter(orchestrator.DefaultAtomicConfig())

	require.NoError(t, aw.WriteFile(path, []byte(`{"a":1}`)))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(content))
}

func TestAtomicWriterBacksUpExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	aw := orchestrator.NewAtomicWriter(orchestrator.DefaultAtomicConfig())
	require.NoError(t, aw.WriteFile(path, []byte("new")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var sawBackup bool
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" && e.Name() != "out.json" {
			sawBackup = true
		}
	}
	require.True(t, sawBackup, "expected a .bak.* file alongside out.json")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "new", string(content))
}

func TestAtomicWriterNoBackupWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	cfg := orchestrator.DefaultAtomicConfig()
	cfg.BackupOriginal = false
	aw := orchestrator.NewAtomicWriter(cfg)
	require.NoError(t, aw.WriteFile(path, []byte("new")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
