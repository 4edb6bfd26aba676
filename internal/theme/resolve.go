package theme

import (
	"maps"
	"sort"
	"strconv"
)

// Resolved is the full token set after applying a config's extensions to
// the default theme.
type Resolved struct {
	Colors map[string]Palette
	Fonts  map[string][]string
}

// Resolve extends the default theme with cfg. Extensions add colour
// families and shades and replace whole font stacks per role. Nothing in
// the default theme is removed.
func Resolve(cfg Config) Resolved {
	r := DefaultTheme()

	for name, palette := range cfg.Theme.Extend.Colors {
		merged := Palette{}
		maps.Copy(merged, r.Colors[name])
		maps.Copy(merged, palette)
		r.Colors[name] = merged
	}

	for role, stack := range cfg.Theme.Extend.FontFamily {
		r.Fonts[role] = append([]string(nil), stack...)
	}

	return r
}

func (r Resolved) ColorNames() []string {
	return sortedKeys(r.Colors)
}

func (r Resolved) FontRoles() []string {
	return sortedKeys(r.Fonts)
}

// Shades lists the palette's shade keys with DEFAULT first and numeric
// shades ascending.
func (p Palette) Shades() []string {
	shades := sortedKeys(p)
	sort.SliceStable(shades, func(i, j int) bool {
		return shadeRank(shades[i]) < shadeRank(shades[j])
	})
	return shades
}

func shadeRank(shade string) int {
	if shade == "DEFAULT" {
		return -1
	}
	n, err := strconv.Atoi(shade)
	if err != nil {
		return 1 << 20
	}
	return n
}
