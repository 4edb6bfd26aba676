package fs

import (
	"errors"
	iofs "io/fs"
)

var ErrReadOnly = errors.New("embedded filesystem is read-only")

// EmbedFileSystem serves files compiled into the binary.
type EmbedFileSystem struct {
	fs iofs.FS
}

func NewEmbedFileSystem(fsys iofs.FS) *EmbedFileSystem {
	return &EmbedFileSystem{fs: fsys}
}

func (e *EmbedFileSystem) Open(name string) (iofs.File, error) {
	return e.fs.Open(name)
}

func (e *EmbedFileSystem) ReadFile(path string) ([]byte, error) {
	return iofs.ReadFile(e.fs, path)
}

func (e *EmbedFileSystem) FileExists(path string) bool {
	info, err := iofs.Stat(e.fs, path)
	return err == nil && !info.IsDir()
}

func (e *EmbedFileSystem) WriteFile(string, []byte, iofs.FileMode) error {
	return ErrReadOnly
}

func (e *EmbedFileSystem) MkdirAll(string, iofs.FileMode) error {
	return ErrReadOnly
}
