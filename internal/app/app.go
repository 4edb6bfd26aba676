package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/3-lines-studio/gacha/internal/component"
	"github.com/3-lines-studio/gacha/internal/core"
)

const StateScriptID = "__GACHA_STATE__"

var (
	ErrMountTargetNotFound = errors.New("mount target not found")
	ErrInvalidSelector     = errors.New("mount selector must be an id selector")
	ErrAlreadyMounted      = errors.New("app already mounted")
	ErrDuplicatePlugin     = errors.New("plugin already installed")
	ErrNilRoot             = errors.New("app has no root component")
)

// Plugin is attached to an App before it is mounted.
type Plugin interface {
	Name() string
	Install(a *App) error
}

// Outlet renders whatever view the router currently points at.
type Outlet interface {
	CurrentPath() string
	RenderOutlet(ctx context.Context, data component.ViewData) (template.HTML, error)
}

// StateSource exposes the store contents for rendering and hydration.
type StateSource interface {
	Snapshot() map[string]map[string]any
}

// App is one application instance: a root component plus the plugins
// attached to it. It is mounted at most once.
type App struct {
	mu        sync.Mutex
	root      component.Component
	installed []string
	outlet    Outlet
	state     StateSource
	mounted   bool
}

func New(root component.Component) *App {
	return &App{root: root}
}

func (a *App) Use(p Plugin) error {
	a.mu.Lock()
	if a.mounted {
		a.mu.Unlock()
		return fmt.Errorf("use %s: %w", p.Name(), ErrAlreadyMounted)
	}
	for _, name := range a.installed {
		if name == p.Name() {
			a.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrDuplicatePlugin, name)
		}
	}
	a.mu.Unlock()

	if err := p.Install(a); err != nil {
		return fmt.Errorf("install %s: %w", p.Name(), err)
	}

	a.mu.Lock()
	a.installed = append(a.installed, p.Name())
	a.mu.Unlock()
	return nil
}

// Plugins lists installed plugin names in install order.
func (a *App) Plugins() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.installed...)
}

func (a *App) SetOutlet(o Outlet) {
	a.mu.Lock()
	a.outlet = o
	a.mu.Unlock()
}

func (a *App) SetState(s StateSource) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

func (a *App) Mounted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mounted
}

// Mount renders the app into the element matched by selector inside doc and
// returns the resulting document.
func (a *App) Mount(ctx context.Context, doc io.Reader, selector string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mounted {
		return nil, ErrAlreadyMounted
	}
	if a.root == nil {
		return nil, ErrNilRoot
	}

	id, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}

	tree, err := html.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("parse host document: %w", err)
	}

	anchor := findByID(tree, id)
	if anchor == nil {
		return nil, fmt.Errorf("%w: %s", ErrMountTargetNotFound, selector)
	}

	data := component.ViewData{}
	if a.state != nil {
		data.State = a.state.Snapshot()
	}
	if a.outlet != nil {
		data.Path = a.outlet.CurrentPath()
		outlet, err := a.outlet.RenderOutlet(ctx, data)
		if err != nil {
			return nil, err
		}
		data.Outlet = outlet
	}

	rendered, err := a.root.Render(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("render root: %w", err)
	}

	nodes, err := html.ParseFragment(strings.NewReader(string(rendered)), anchor)
	if err != nil {
		return nil, fmt.Errorf("parse rendered app: %w", err)
	}

	for c := anchor.FirstChild; c != nil; {
		next := c.NextSibling
		anchor.RemoveChild(c)
		c = next
	}
	for _, n := range nodes {
		anchor.AppendChild(n)
	}

	if data.State != nil {
		if err := appendStateScript(tree, anchor, data.State); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, tree); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}

	a.mounted = true
	return buf.Bytes(), nil
}

func parseSelector(selector string) (string, error) {
	id, ok := strings.CutPrefix(strings.TrimSpace(selector), "#")
	if !ok || id == "" || strings.ContainsAny(id, " .#[]>:") {
		return "", fmt.Errorf("%w: %q", ErrInvalidSelector, selector)
	}
	return id, nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Namespace == "" && attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func appendStateScript(tree, anchor *html.Node, state map[string]map[string]any) error {
	encoded, err := core.EncodeState(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	script := &html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
		Attr: []html.Attribute{
			{Key: "id", Val: StateScriptID},
			{Key: "type", Val: "application/json"},
		},
	}
	script.AppendChild(&html.Node{Type: html.TextNode, Data: encoded})

	if body := findElement(tree, atom.Body); body != nil {
		body.AppendChild(script)
		return nil
	}
	anchor.Parent.InsertBefore(script, anchor.NextSibling)
	return nil
}
