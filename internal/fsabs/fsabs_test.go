package fsabs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestOSFileExists(t *testing.T) {
	dir := t.TempDir()
	fs := OS{}
	require.False(t, fs.FileExists(filepath.Join(dir, "missing.gd")))

	present := filepath.Join(dir, "present.gd")
	writeFile(t, present, "extends Node\n")
	require.True(t, fs.FileExists(present))
	require.False(t, fs.FileExists(dir)) // directories are not files
}

func TestOSReadAllText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.gd")
	writeFile(t, path, "extends Node\n\nfunc _ready():\n\tpass\n")

	fs := OS{}
	text, err := fs.ReadAllText(path)
	require.NoError(t, err)
	require.Equal(t, "extends Node\n\nfunc _ready():\n\tpass\n", text)

	_, err = fs.ReadAllText(filepath.Join(dir, "nope.gd"))
	require.Error(t, err)
}

func TestOSGetFilesNonRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.gd"), "extends Node\n")
	writeFile(t, filepath.Join(dir, "b.gd"), "extends Node\n")
	writeFile(t, filepath.Join(dir, "c.txt"), "not gdscript")
	writeFile(t, filepath.Join(dir, "nested", "d.gd"), "extends Node\n")

	fs := OS{}
	files, err := fs.GetFiles(dir, "*.gd", false)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		filepath.Join(dir, "a.gd"),
		filepath.Join(dir, "b.gd"),
	}, files)
}

func TestOSGetFilesRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.gd"), "extends Node\n")
	writeFile(t, filepath.Join(dir, "nested", "b.gd"), "extends Node\n")
	writeFile(t, filepath.Join(dir, "nested", "deeper", "c.gd"), "extends Node\n")
	writeFile(t, filepath.Join(dir, "nested", "ignore.txt"), "nope")

	fs := OS{}
	files, err := fs.GetFiles(dir, "*.gd", true)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		filepath.Join(dir, "a.gd"),
		filepath.Join(dir, "nested", "b.gd"),
		filepath.Join(dir, "nested", "deeper", "c.gd"),
	}, files)
}
