package theme

import (
	"fmt"
	"io/fs"
	"regexp"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Matches reports whether path is covered by any of the content globs.
// A leading "./" is ignored on both sides.
func Matches(globs []string, path string) bool {
	path = trimDot(path)
	for _, g := range globs {
		if ok, err := doublestar.Match(trimDot(g), path); err == nil && ok {
			return true
		}
	}
	return false
}

// Scan lists the files in fsys covered by the content globs, sorted and
// without duplicates.
func Scan(fsys fs.FS, globs []string) ([]string, error) {
	seen := map[string]struct{}{}
	for _, g := range globs {
		matches, err := doublestar.Glob(fsys, trimDot(g), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", g, err)
		}
		for _, m := range matches {
			seen[m] = struct{}{}
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

var classPattern = regexp.MustCompile(`[a-z][a-z0-9]*(?:-[a-z0-9]+)+`)

// ClassSet is the set of utility class candidates found in content.
type ClassSet map[string]struct{}

func ExtractClasses(content []byte) ClassSet {
	set := ClassSet{}
	set.Add(content)
	return set
}

// Add records every candidate in content.
func (s ClassSet) Add(content []byte) {
	for _, m := range classPattern.FindAll(content, -1) {
		s[string(m)] = struct{}{}
	}
}

func (s ClassSet) Has(class string) bool {
	_, ok := s[class]
	return ok
}

func (s ClassSet) Sorted() []string {
	return sortedKeys(s)
}
