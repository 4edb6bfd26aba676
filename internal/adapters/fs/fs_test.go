package fs

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ FileSystem = (*OSFileSystem)(nil)
	_ FileSystem = (*EmbedFileSystem)(nil)
)

func TestOSFileSystemRoundTrip(t *testing.T) {
	root := t.TempDir()
	fsys := NewOSFileSystem(root)

	require.NoError(t, fsys.MkdirAll("public/assets", 0o755))
	require.NoError(t, fsys.WriteFile("public/assets/theme.css", []byte(":root{}"), 0o644))

	assert.True(t, fsys.FileExists("public/assets/theme.css"))
	assert.False(t, fsys.FileExists("public/assets"))
	assert.False(t, fsys.FileExists("missing.css"))

	data, err := fsys.ReadFile("public/assets/theme.css")
	require.NoError(t, err)
	assert.Equal(t, ":root{}", string(data))

	onDisk, err := os.ReadFile(filepath.Join(root, "public", "assets", "theme.css"))
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)
}

func TestEmbedFileSystemIsReadOnly(t *testing.T) {
	fsys := NewEmbedFileSystem(fstest.MapFS{"index.html": {Data: []byte("<div id=\"app\"></div>")}})

	assert.True(t, fsys.FileExists("index.html"))
	data, err := fsys.ReadFile("index.html")
	require.NoError(t, err)
	assert.Contains(t, string(data), `id="app"`)

	assert.ErrorIs(t, fsys.WriteFile("x", nil, 0o644), ErrReadOnly)
	assert.ErrorIs(t, fsys.MkdirAll("x", 0o755), ErrReadOnly)
}
