package component

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/3-lines-studio/gacha/internal/core"
)

var ErrUnsupportedView = errors.New("unsupported view file")

// ViewData is what a component sees while rendering.
type ViewData struct {
	Path   string
	Query  map[string]string
	State  map[string]map[string]any
	Outlet template.HTML
}

type Component interface {
	Name() string
	Render(ctx context.Context, data ViewData) (template.HTML, error)
}

// Loader resolves a component on demand.
type Loader func(ctx context.Context) (Component, error)

type Template struct {
	name string
	tmpl *template.Template
}

func NewTemplate(name, src string) (*Template, error) {
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse view %s: %w", name, err)
	}
	return &Template{name: name, tmpl: tmpl}, nil
}

func (t *Template) Name() string {
	return t.name
}

func (t *Template) Render(ctx context.Context, data ViewData) (template.HTML, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render view %s: %w", t.name, err)
	}
	return template.HTML(buf.String()), nil
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Markdown is a static view authored as markdown. The converted document is
// wrapped in a section carrying the given classes.
type Markdown struct {
	name string
	body template.HTML
}

func NewMarkdown(name string, src []byte, classes ...string) (*Markdown, error) {
	var buf bytes.Buffer
	if len(classes) > 0 {
		fmt.Fprintf(&buf, `<section class="%s">`, template.HTMLEscapeString(strings.Join(classes, " ")))
	} else {
		buf.WriteString("<section>")
	}
	if err := markdown.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown view %s: %w", name, err)
	}
	buf.WriteString("</section>")
	return &Markdown{name: name, body: template.HTML(buf.String())}, nil
}

func (m *Markdown) Name() string {
	return m.name
}

func (m *Markdown) Render(ctx context.Context, _ ViewData) (template.HTML, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.body, nil
}

// Load reads a view from fsys and builds the component matching its
// extension.
func Load(fsys fs.FS, ref string) (Component, error) {
	file := core.CanonicalViewFile(ref)
	name := core.ViewName(file)

	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("read view %s: %w", file, err)
	}

	switch path.Ext(file) {
	case ".html", ".tmpl":
		return NewTemplate(name, string(data))
	case ".md":
		return NewMarkdown(name, data, "view", "view-"+name)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedView, file)
	}
}

// Deferred returns a Loader that reads the view only when invoked.
func Deferred(fsys fs.FS, ref string) Loader {
	return func(ctx context.Context) (Component, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Load(fsys, ref)
	}
}

// Func adapts a render function into a Component.
type Func struct {
	ID string
	Fn func(ctx context.Context, data ViewData) (template.HTML, error)
}

func (f Func) Name() string {
	return f.ID
}

func (f Func) Render(ctx context.Context, data ViewData) (template.HTML, error) {
	return f.Fn(ctx, data)
}

func Static(name string, body template.HTML) Component {
	return Func{ID: name, Fn: func(context.Context, ViewData) (template.HTML, error) {
		return body, nil
	}}
}
