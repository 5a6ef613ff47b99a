package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Notes.TXT")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	doc, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "hello world", doc.Content)
	assert.Equal(t, "Notes.TXT", doc.Source)
	assert.Equal(t, "Notes", doc.Title)
	assert.Equal(t, TypeText, doc.Type)
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	_, err := LoadFile("whatever.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestLoadFileEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blank.md")
	require.NoError(t, os.WriteFile(path, []byte("  \n\t"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadDirectorySkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "deep.txt"), []byte("hidden"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "top.txt"), []byte("visible"), 0o644))

	docs, skipped, err := LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Equal(t, "top.txt", docs[0].Source)
	assert.Empty(t, skipped)
}
