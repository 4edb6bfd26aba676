package usecase

import (
	"fmt"
	iofs "io/fs"

	"github.com/3-lines-studio/gacha/internal/core"
	"github.com/3-lines-studio/gacha/internal/theme"
)

const ThemeAsset = "theme.css"

type Stylesheet struct {
	Name    string
	CSS     []byte
	Files   []string
	Classes []string
}

// CompileTheme loads the theme config at configPath, scans the content it
// names and generates the stylesheet for the classes found there.
func CompileTheme(fsys iofs.FS, configPath string) (Stylesheet, error) {
	cfg, err := theme.Load(fsys, configPath)
	if err != nil {
		return Stylesheet{}, err
	}

	files, err := theme.Scan(fsys, cfg.Content)
	if err != nil {
		return Stylesheet{}, err
	}

	used := theme.ClassSet{}
	for _, f := range files {
		data, err := iofs.ReadFile(fsys, f)
		if err != nil {
			return Stylesheet{}, fmt.Errorf("read content %s: %w", f, err)
		}
		used.Add(data)
	}

	css := theme.Generate(theme.Resolve(cfg), used)
	return Stylesheet{
		Name:    core.FingerprintName("theme", ".css", css),
		CSS:     css,
		Files:   files,
		Classes: used.Sorted(),
	}, nil
}
