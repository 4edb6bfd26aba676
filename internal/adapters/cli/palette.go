package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/3-lines-studio/gacha/internal/theme"
)

// PrintPalette lists every colour token of r, one family per line, and the
// font stacks below them.
func (o *Output) PrintPalette(r theme.Resolved) {
	for _, name := range r.ColorNames() {
		palette := r.Colors[name]
		cells := make([]string, 0, len(palette))
		for _, shade := range palette.Shades() {
			cells = append(cells, o.swatch(palette[shade], shade))
		}
		fmt.Fprintf(o.out, "  %-8s %s\n", name, strings.Join(cells, " "))
	}

	fmt.Fprintln(o.out)
	for _, role := range r.FontRoles() {
		fmt.Fprintf(o.out, "  %-8s %s\n", "font-"+role, o.Gray(theme.FontStack(r.Fonts[role])))
	}
}

func (o *Output) swatch(hex, shade string) string {
	if !o.enableColors {
		return shade + ":" + hex
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color(readableOn(hex))).
		Padding(0, 1).
		Render(shade)
}

// readableOn picks black or white text for a hex background.
func readableOn(hex string) string {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 || len(h) == 4 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) < 6 {
		return "#000000"
	}
	var r, g, b int
	if _, err := fmt.Sscanf(h[:6], "%02x%02x%02x", &r, &g, &b); err != nil {
		return "#000000"
	}
	if r*299+g*587+b*114 > 128000 {
		return "#000000"
	}
	return "#ffffff"
}
