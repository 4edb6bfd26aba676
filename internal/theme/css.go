package theme

import (
	"fmt"
	"regexp"
	"strings"
)

var colorUtilities = []struct {
	prefix   string
	property string
}{
	{"bg", "background-color"},
	{"text", "color"},
	{"border", "border-color"},
}

// Generate renders the stylesheet for r. Custom properties are always
// emitted. When used is non-nil only the utility classes it contains are
// emitted.
func Generate(r Resolved, used ClassSet) []byte {
	var b strings.Builder

	b.WriteString(":root {\n")
	for _, name := range r.ColorNames() {
		for _, shade := range r.Colors[name].Shades() {
			fmt.Fprintf(&b, "  %s: %s;\n", colorVar(name, shade), r.Colors[name][shade])
		}
	}
	for _, role := range r.FontRoles() {
		fmt.Fprintf(&b, "  --font-%s: %s;\n", role, FontStack(r.Fonts[role]))
	}
	b.WriteString("}\n")

	for _, name := range r.ColorNames() {
		for _, shade := range r.Colors[name].Shades() {
			for _, u := range colorUtilities {
				class := ColorClass(u.prefix, name, shade)
				if used != nil && !used.Has(class) {
					continue
				}
				fmt.Fprintf(&b, ".%s { %s: var(%s); }\n", class, u.property, colorVar(name, shade))
			}
		}
	}

	for _, role := range r.FontRoles() {
		class := "font-" + role
		if used != nil && !used.Has(class) {
			continue
		}
		fmt.Fprintf(&b, ".%s { font-family: var(--font-%s); }\n", class, role)
	}

	return []byte(b.String())
}

// ColorClass builds a colour utility name. The DEFAULT shade has no suffix.
func ColorClass(prefix, name, shade string) string {
	if shade == "DEFAULT" {
		return prefix + "-" + name
	}
	return prefix + "-" + name + "-" + shade
}

func colorVar(name, shade string) string {
	if shade == "DEFAULT" {
		return "--color-" + name
	}
	return "--color-" + name + "-" + shade
}

var bareFamily = regexp.MustCompile(`^-?[A-Za-z][A-Za-z0-9-]*$`)

// FontStack formats families as a CSS font-family value, quoting names
// that are not plain identifiers.
func FontStack(families []string) string {
	out := make([]string, len(families))
	for i, f := range families {
		if bareFamily.MatchString(f) {
			out[i] = f
		} else {
			out[i] = `"` + strings.ReplaceAll(f, `"`, `\"`) + `"`
		}
	}
	return strings.Join(out, ", ")
}
