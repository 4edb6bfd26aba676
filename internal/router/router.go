package router

import (
	"context"
	"fmt"
	"html/template"
	"sync"

	"github.com/3-lines-studio/gacha/internal/app"
	"github.com/3-lines-studio/gacha/internal/component"
	"github.com/3-lines-studio/gacha/internal/core"
)

const PluginName = "router"

type Option func(*options)

type options struct {
	fallback component.Component
}

// WithFallback renders c for paths that match no route. Without it such
// paths fail with ErrNoRoute.
func WithFallback(c component.Component) Option {
	return func(o *options) {
		o.fallback = c
	}
}

var _ Factory = WebHistory{}

// Factory builds routers over a route table.
type Factory interface {
	New(table *Table, opts ...Option) *Router
}

// WebHistory resolves routes from request paths under Base.
type WebHistory struct {
	Base string
}

func (h WebHistory) New(table *Table, opts ...Option) *Router {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	base := h.Base
	if base == "" {
		base = "/"
	}
	return &Router{
		table:    table,
		base:     core.NormalizePath(base),
		fallback: o.fallback,
	}
}

// Match is the outcome of resolving one path.
type Match struct {
	Path      string
	Route     Route
	Component component.Component
	Action    core.RouteAction
}

func (m Match) Fallback() bool {
	return m.Action == core.ActionRenderFallback
}

// Router tracks navigation for a single application instance.
type Router struct {
	table    *Table
	base     string
	fallback component.Component

	mu      sync.Mutex
	history []Match
}

func (r *Router) Name() string {
	return PluginName
}

func (r *Router) Install(a *app.App) error {
	a.SetOutlet(r)
	return nil
}

func (r *Router) Base() string {
	return r.base
}

func (r *Router) Table() *Table {
	return r.table
}

func (r *Router) Resolve(ctx context.Context, path string) (Match, error) {
	path = core.StripBase(r.base, path)
	route, ok := r.table.Lookup(path)

	decision := core.DecideRoute(core.RouteRequest{
		Matched:     ok,
		Lazy:        route.IsLazy(),
		Loaded:      ok && r.table.Loaded(route.Path),
		HasFallback: r.fallback != nil,
	})

	m := Match{Path: path, Route: route, Action: decision.Action}

	switch decision.Action {
	case core.ActionRenderEager:
		m.Component = route.Component
	case core.ActionRenderCached:
		m.Component, _ = r.table.cached(route.Path)
	case core.ActionLoadLazy:
		c, err := r.table.load(ctx, route)
		if err != nil {
			return Match{}, err
		}
		m.Component = c
	case core.ActionRenderFallback:
		m.Component = r.fallback
	default:
		return Match{}, fmt.Errorf("%w: %s", ErrNoRoute, path)
	}

	return m, nil
}

// Push resolves path and makes it the current entry.
func (r *Router) Push(ctx context.Context, path string) (Match, error) {
	m, err := r.Resolve(ctx, path)
	if err != nil {
		return Match{}, err
	}

	r.mu.Lock()
	r.history = append(r.history, m)
	r.mu.Unlock()
	return m, nil
}

// Back drops the current entry and returns the previous one.
func (r *Router) Back() (Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.history) < 2 {
		return Match{}, ErrNoHistory
	}
	r.history = r.history[:len(r.history)-1]
	return r.history[len(r.history)-1], nil
}

func (r *Router) Current() (Match, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.history) == 0 {
		return Match{}, false
	}
	return r.history[len(r.history)-1], true
}

func (r *Router) CurrentPath() string {
	m, ok := r.Current()
	if !ok {
		return ""
	}
	return m.Path
}

func (r *Router) RenderOutlet(ctx context.Context, data component.ViewData) (template.HTML, error) {
	m, ok := r.Current()
	if !ok {
		return "", fmt.Errorf("%w: router has not navigated", ErrNoRoute)
	}
	data.Path = m.Path
	return m.Component.Render(ctx, data)
}
