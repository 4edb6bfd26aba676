package core

import (
	"fmt"
	"strings"
)

func NormalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

func ValidateRoutePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must start with /")
	}

	if strings.Contains(path, "?") {
		return fmt.Errorf("path cannot contain query string")
	}

	if strings.Contains(path, "#") {
		return fmt.Errorf("path cannot contain fragment")
	}

	if strings.Contains(path, "..") {
		return fmt.Errorf("path cannot contain parent directory references")
	}

	if strings.ContainsAny(path, "*{}:") {
		return fmt.Errorf("path cannot contain wildcards or parameters")
	}

	if path != "/" && strings.HasSuffix(path, "/") {
		return fmt.Errorf("path cannot end with /")
	}

	return nil
}

// StripBase removes the history base from a request path. Paths outside the
// base are returned normalized but otherwise unchanged.
func StripBase(base, path string) string {
	base = NormalizePath(base)
	path = NormalizePath(path)
	if base == "/" {
		return path
	}
	if path == base {
		return "/"
	}
	if rest, ok := strings.CutPrefix(path, base+"/"); ok {
		return "/" + rest
	}
	return path
}

// SafeReturnPath reports whether target is an origin-relative path that can
// be used as a post-login redirect.
func SafeReturnPath(target string) (string, bool) {
	if target == "" || !strings.HasPrefix(target, "/") {
		return "", false
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "", false
	}
	if strings.ContainsAny(target, "\r\n") {
		return "", false
	}
	return target, true
}
