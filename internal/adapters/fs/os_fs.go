package fs

import (
	iofs "io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem is a FileSystem rooted at a directory on disk.
type OSFileSystem struct {
	root string
	fs   iofs.FS
}

func NewOSFileSystem(root string) *OSFileSystem {
	return &OSFileSystem{root: root, fs: os.DirFS(root)}
}

func (o *OSFileSystem) Open(name string) (iofs.File, error) {
	return o.fs.Open(name)
}

func (o *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return iofs.ReadFile(o.fs, path)
}

func (o *OSFileSystem) FileExists(path string) bool {
	info, err := iofs.Stat(o.fs, path)
	return err == nil && !info.IsDir()
}

func (o *OSFileSystem) WriteFile(path string, data []byte, perm iofs.FileMode) error {
	return os.WriteFile(o.abs(path), data, perm)
}

func (o *OSFileSystem) MkdirAll(path string, perm iofs.FileMode) error {
	return os.MkdirAll(o.abs(path), perm)
}

func (o *OSFileSystem) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(o.root, filepath.FromSlash(path))
}
