package core

import (
	"path"
	"strings"
)

// CanonicalViewFile maps a view reference to its one canonical file name:
// the directory and base name keep their casing, the extension is lowered.
func CanonicalViewFile(ref string) string {
	ref = strings.TrimPrefix(ref, "./")
	ref = strings.TrimPrefix(ref, "/")
	ext := path.Ext(ref)
	if ext == "" {
		return ref + ".html"
	}
	return strings.TrimSuffix(ref, ext) + strings.ToLower(ext)
}

func ViewName(ref string) string {
	name := path.Base(CanonicalViewFile(ref))
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "" || name == "." {
		return "view"
	}
	return strings.ToLower(name)
}
