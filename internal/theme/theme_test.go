package theme

import (
	"errors"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lilacConfig = `
content:
  - ./index.html
  - ./src/**/*.{html,md,js,ts}
theme:
  extend:
    colors:
      lilac:
        "50": "#f6f1fd"
        "100": "#ede4fa"
        "200": "#dac9f5"
        "300": "#c8aef0"
        "400": "#b593eb"
        "500": "#a378e6"
        "600": "#8260b8"
        "700": "#62488a"
        "800": "#41305c"
        "900": "#21182e"
    fontFamily:
      sans: ["Inter var"]
plugins: []
`

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func TestParseLilacConfig(t *testing.T) {
	cfg, err := Parse([]byte(lilacConfig))
	require.NoError(t, err)

	assert.Equal(t, []string{"./index.html", "./src/**/*.{html,md,js,ts}"}, cfg.Content)
	assert.Len(t, cfg.Theme.Extend.Colors["lilac"], 10)
	assert.Equal(t, "#a378e6", cfg.Theme.Extend.Colors["lilac"]["500"])
	assert.Equal(t, []string{"Inter var"}, cfg.Theme.Extend.FontFamily["sans"])
	assert.Empty(t, cfg.Plugins)
}

func TestLoadFromFS(t *testing.T) {
	fsys := fstest.MapFS{"theme.yaml": {Data: []byte(lilacConfig)}}

	cfg, err := Load(fsys, "./theme.yaml")
	require.NoError(t, err)
	assert.Contains(t, cfg.Theme.Extend.Colors, "lilac")

	_, err = Load(fsys, "missing.yaml")
	assert.Error(t, err)
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"no content", "theme: {}", "content"},
		{"empty glob", "content: ['']", "content"},
		{"bad glob", "content: ['src/[a-']", "content"},
		{"bad colour name", "content: [a.html]\ntheme:\n  extend:\n    colors:\n      Lilac: {'100': '#fff'}", "theme.extend.colors.Lilac"},
		{"empty palette", "content: [a.html]\ntheme:\n  extend:\n    colors:\n      lilac: {}", "theme.extend.colors.lilac"},
		{"bad shade", "content: [a.html]\ntheme:\n  extend:\n    colors:\n      lilac: {'150': '#fff'}", "theme.extend.colors.lilac.150"},
		{"bad hex", "content: [a.html]\ntheme:\n  extend:\n    colors:\n      lilac: {'100': 'purple'}", "theme.extend.colors.lilac.100"},
		{"empty font stack", "content: [a.html]\ntheme:\n  extend:\n    fontFamily:\n      sans: []", "theme.extend.fontFamily.sans"},
		{"empty font name", "content: [a.html]\ntheme:\n  extend:\n    fontFamily:\n      sans: ['']", "theme.extend.fontFamily.sans"},
		{"plugins", "content: [a.html]\nplugins: [forms]", "plugins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("content: [a.html]\ndarkMode: class\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestResolveExtendsWithoutRemoving(t *testing.T) {
	cfg, err := Parse([]byte(lilacConfig))
	require.NoError(t, err)

	r := Resolve(cfg)
	base := DefaultTheme()

	for name, palette := range base.Colors {
		assert.Equal(t, palette, r.Colors[name], "default colour %s must survive", name)
	}
	assert.Equal(t, base.Fonts["serif"], r.Fonts["serif"])
	assert.Equal(t, base.Fonts["mono"], r.Fonts["mono"])

	assert.Equal(t, []string{"Inter var"}, r.Fonts["sans"])
	assert.Equal(t, []string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900"}, r.Colors["lilac"].Shades())
}

func TestResolveMergesShadesOfExistingFamily(t *testing.T) {
	cfg := Config{Theme: Theme{Extend: Extension{Colors: map[string]Palette{
		"gray": {"950": "#030712", "500": "#777777"},
	}}}}

	r := Resolve(cfg)
	assert.Equal(t, "#f9fafb", r.Colors["gray"]["50"])
	assert.Equal(t, "#777777", r.Colors["gray"]["500"])
	assert.Equal(t, "#030712", r.Colors["gray"]["950"])

	assert.Equal(t, "#6b7280", DefaultTheme().Colors["gray"]["500"], "default theme must not be mutated")
}

func TestMatches(t *testing.T) {
	globs := []string{"./index.html", "./src/**/*.{html,md,js,ts}"}

	tests := []struct {
		path string
		want bool
	}{
		{"index.html", true},
		{"./index.html", true},
		{"src/App.html", true},
		{"src/views/Home.md", true},
		{"src/views/deep/nested/login.ts", true},
		{"src/main.js", true},
		{"src/style.css", false},
		{"public/main.css", false},
		{"other.html", false},
	}

	for _, tt := range tests {
		if got := Matches(globs, tt.path); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestScan(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html":           {Data: []byte(`<div id="app"></div>`)},
		"theme.yaml":           {Data: []byte(lilacConfig)},
		"src/App.html":         {Data: []byte(`<main class="font-sans"></main>`)},
		"src/views/Home.md":    {Data: []byte("# Home")},
		"src/views/Login.html": {Data: []byte(`<form class="bg-lilac-100"></form>`)},
		"src/views/login.css":  {Data: []byte(`.x{}`)},
		"public/main.css":      {Data: []byte(`body{}`)},
	}

	files, err := Scan(fsys, []string{"./index.html", "./src/**/*.{html,md,js,ts}", "index.html"})
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html", "src/App.html", "src/views/Home.md", "src/views/Login.html"}, files)
}

func TestExtractClasses(t *testing.T) {
	set := ExtractClasses([]byte(`<form class="bg-lilac-100 text-lilac-900 p-4"><button class="font-sans">Go</button></form>`))

	for _, c := range []string{"bg-lilac-100", "text-lilac-900", "p-4", "font-sans"} {
		assert.True(t, set.Has(c), c)
	}
	assert.False(t, set.Has("form"))
	assert.False(t, set.Has("button"))
}

func TestGenerateOnlyUsedUtilities(t *testing.T) {
	cfg, err := Parse([]byte(lilacConfig))
	require.NoError(t, err)

	css := string(Generate(Resolve(cfg), ExtractClasses([]byte(`bg-lilac-50 text-lilac-900 font-sans bg-white`))))

	assert.Contains(t, css, "--color-lilac-50: #f6f1fd;")
	assert.Contains(t, css, "--color-gray-500: #6b7280;")
	assert.Contains(t, css, `--font-sans: "Inter var";`)
	assert.Contains(t, css, ".bg-lilac-50 { background-color: var(--color-lilac-50); }")
	assert.Contains(t, css, ".text-lilac-900 { color: var(--color-lilac-900); }")
	assert.Contains(t, css, ".bg-white { background-color: var(--color-white); }")
	assert.Contains(t, css, ".font-sans { font-family: var(--font-sans); }")
	assert.NotContains(t, css, ".bg-lilac-100")
	assert.NotContains(t, css, ".font-mono")
}

func TestGenerateAllUtilities(t *testing.T) {
	cfg, err := Parse([]byte(lilacConfig))
	require.NoError(t, err)

	css := string(Generate(Resolve(cfg), nil))

	for _, shade := range []string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900"} {
		for _, prefix := range []string{"bg", "text", "border"} {
			assert.Contains(t, css, "."+ColorClass(prefix, "lilac", shade)+" {")
		}
	}
	assert.Equal(t, 1, strings.Count(css, ":root {"))
	assert.Contains(t, css, ".font-mono {")
}

func TestGenerateStylesheet(t *testing.T) {
	cfg, err := Parse([]byte(lilacConfig))
	require.NoError(t, err)

	used := ExtractClasses([]byte(`<main class="min-h-screen bg-lilac-50 text-lilac-900 font-sans"><a class="border-lilac-300">x</a></main>`))
	snaps.WithConfig(snaps.Ext(".css")).MatchSnapshot(t, string(Generate(Resolve(cfg), used)))
}

func TestFontStack(t *testing.T) {
	assert.Equal(t, `"Inter var"`, FontStack([]string{"Inter var"}))
	assert.Equal(t, `ui-sans-serif, -apple-system, "Segoe UI", sans-serif`, FontStack([]string{"ui-sans-serif", "-apple-system", "Segoe UI", "sans-serif"}))
}
