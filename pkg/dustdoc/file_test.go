package dustdoc

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basic.dust")
	writeFile(t, path, basicSource)

	m, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, Extract(basicSource), m)
}

func TestParseFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.dust")

	_, err := ParseFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), path)
}

func TestIsSourceFile(t *testing.T) {
	assert.True(t, IsSourceFile("a.dust"))
	assert.True(t, IsSourceFile("dir/paper.dpaper"))
	assert.True(t, IsSourceFile("LOUD.DUST"))
	assert.False(t, IsSourceFile("notes.txt"))
	assert.False(t, IsSourceFile("dust"))
}

func TestParseDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.dust"), "/// B.\nforge B {\n")
	writeFile(t, filepath.Join(dir, "a.dust"), "/// A.\nforge A {\n")
	writeFile(t, filepath.Join(dir, "sub", "c.dpaper"), "//! Paper.\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "/// ignored\nforge X {\n")
	writeFile(t, filepath.Join(dir, ".cache", "d.dust"), "/// hidden\nforge D {\n")

	files, err := ParseDirectory(context.Background(), dir, 2)
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "a.dust", files[0].Name)
	assert.Equal(t, "b.dust", files[1].Name)
	assert.Equal(t, "sub/c.dpaper", files[2].Name)
	assert.Equal(t, filepath.Join(dir, "a.dust"), files[0].Path)

	assert.Equal(t, "A", files[0].Module.Items[0].Name)
	assert.Equal(t, []string{"Paper."}, files[2].Module.ModuleDocs)
}

func TestParseDirectory_DefaultWorkers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.dust"), "/// A.\nforge A {\n")

	files, err := ParseDirectory(context.Background(), dir, 0)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestParseDirectory_Empty(t *testing.T) {
	files, err := ParseDirectory(context.Background(), t.TempDir(), 1)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestParseDirectory_MissingDir(t *testing.T) {
	_, err := ParseDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestParseDirectory_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.dust"), "/// A.\nforge A {\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseDirectory(ctx, dir, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseFS(t *testing.T) {
	fsys := fstest.MapFS{
		"b.dust":         {Data: []byte("/// B.\nforge B {\n")},
		"lib/a.dpaper":   {Data: []byte("//! Paper.\n")},
		".git/x.dust":    {Data: []byte("/// hidden\nforge X {\n")},
		"README.md":      {Data: []byte("# readme\n")},
		"lib/.keep/y.md": {Data: []byte("")},
	}

	files, err := ParseFS(context.Background(), fsys, 1)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "b.dust", files[0].Name)
	assert.Equal(t, "b.dust", files[0].Path)
	assert.Equal(t, "lib/a.dpaper", files[1].Name)
	assert.Equal(t, []string{"Paper."}, files[1].Module.ModuleDocs)
}

func TestParseDirectory_ErrorNamesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nope")

	_, err := ParseDirectory(context.Background(), dir, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), dir)
}
