package router

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/3-lines-studio/gacha/internal/component"
	"github.com/3-lines-studio/gacha/internal/core"
)

var (
	ErrInvalidRoute = errors.New("invalid route")
	ErrNoRoute      = errors.New("no route matches path")
	ErrNoHistory    = errors.New("no previous history entry")
)

// Route maps one exact path to a view. Exactly one of Component and Loader
// is set.
type Route struct {
	Path      string
	Name      string
	Component component.Component
	Loader    component.Loader
}

func Eager(path string, c component.Component) Route {
	r := Route{Path: path, Component: c}
	if c != nil {
		r.Name = c.Name()
	}
	return r
}

func Lazy(path, name string, loader component.Loader) Route {
	return Route{Path: path, Name: name, Loader: loader}
}

func (r Route) IsLazy() bool {
	return r.Loader != nil
}

// Table is the ordered, immutable set of routes together with the cache of
// deferred views it has already resolved. One Table is shared by every
// router built from it.
type Table struct {
	routes []Route
	index  map[string]int

	mu     sync.RWMutex
	loaded map[string]component.Component
	loads  map[string]int
	group  singleflight.Group
}

func NewTable(routes ...Route) (*Table, error) {
	t := &Table{
		routes: make([]Route, 0, len(routes)),
		index:  make(map[string]int, len(routes)),
		loaded: map[string]component.Component{},
		loads:  map[string]int{},
	}

	for _, r := range routes {
		if err := core.ValidateRoutePath(r.Path); err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidRoute, r.Path, err)
		}
		if (r.Component == nil) == (r.Loader == nil) {
			return nil, fmt.Errorf("%w %q: exactly one of component or loader must be set", ErrInvalidRoute, r.Path)
		}
		if r.Name == "" {
			return nil, fmt.Errorf("%w %q: name is required", ErrInvalidRoute, r.Path)
		}
		if _, dup := t.index[r.Path]; dup {
			return nil, fmt.Errorf("%w %q: duplicate path", ErrInvalidRoute, r.Path)
		}
		t.index[r.Path] = len(t.routes)
		t.routes = append(t.routes, r)
	}

	return t, nil
}

func (t *Table) Lookup(path string) (Route, bool) {
	i, ok := t.index[core.NormalizePath(path)]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Routes returns the routes in declaration order.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

func (t *Table) Len() int {
	return len(t.routes)
}

// Loaded reports whether the deferred view for path has been resolved.
func (t *Table) Loaded(path string) bool {
	_, ok := t.cached(core.NormalizePath(path))
	return ok
}

// Loads reports how many times the loader for path completed successfully.
func (t *Table) Loads(path string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loads[core.NormalizePath(path)]
}

func (t *Table) cached(path string) (component.Component, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.loaded[path]
	return c, ok
}

// load resolves a deferred route. Concurrent callers share one loader call;
// failures are returned to every waiter and are not remembered.
func (t *Table) load(ctx context.Context, r Route) (component.Component, error) {
	v, err, _ := t.group.Do(r.Path, func() (any, error) {
		if c, ok := t.cached(r.Path); ok {
			return c, nil
		}

		c, err := r.Loader(ctx)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("loader returned no component")
		}

		t.mu.Lock()
		t.loaded[r.Path] = c
		t.loads[r.Path]++
		t.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load view %s: %w", r.Name, err)
	}
	return v.(component.Component), nil
}
