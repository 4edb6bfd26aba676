package fs

import (
	iofs "io/fs"
)

// FileSystem is a rooted tree of project files. Paths are slash separated
// and relative to the root.
type FileSystem interface {
	iofs.FS
	ReadFile(path string) ([]byte, error)
	FileExists(path string) bool
	WriteFile(path string, data []byte, perm iofs.FileMode) error
	MkdirAll(path string, perm iofs.FileMode) error
}
