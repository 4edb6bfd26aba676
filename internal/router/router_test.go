package router

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/gacha/internal/app"
	"github.com/3-lines-studio/gacha/internal/component"
	"github.com/3-lines-studio/gacha/internal/core"
)

func countingLoader(calls *atomic.Int32, view component.Component) component.Loader {
	return func(context.Context) (component.Component, error) {
		calls.Add(1)
		return view, nil
	}
}

func newTestTable(t *testing.T, calls *atomic.Int32) *Table {
	t.Helper()
	table, err := NewTable(
		Eager("/", component.Static("home", "<h1>Home</h1>")),
		Lazy("/login", "login", countingLoader(calls, component.Static("login", "<form></form>"))),
	)
	require.NoError(t, err)
	return table
}

func TestNewTableKeepsOrder(t *testing.T) {
	var calls atomic.Int32
	table := newTestTable(t, &calls)

	routes := table.Routes()
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "/", routes[0].Path)
	assert.Equal(t, "home", routes[0].Name)
	assert.False(t, routes[0].IsLazy())
	assert.Equal(t, "/login", routes[1].Path)
	assert.Equal(t, "login", routes[1].Name)
	assert.True(t, routes[1].IsLazy())
	assert.Zero(t, calls.Load(), "building the table must not load lazy views")
}

func TestNewTableRejectsInvalidRoutes(t *testing.T) {
	view := component.Static("v", "")
	loader := func(context.Context) (component.Component, error) { return view, nil }

	tests := []struct {
		name   string
		routes []Route
	}{
		{"empty path", []Route{Eager("", view)}},
		{"relative path", []Route{Eager("login", view)}},
		{"wildcard", []Route{Eager("/users/:id", view)}},
		{"duplicate", []Route{Eager("/", view), Lazy("/", "other", loader)}},
		{"neither", []Route{{Path: "/x", Name: "x"}}},
		{"both", []Route{{Path: "/x", Name: "x", Component: view, Loader: loader}}},
		{"no name", []Route{Lazy("/x", "", loader)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.routes...)
			assert.ErrorIs(t, err, ErrInvalidRoute)
		})
	}
}

func TestLookupNormalizesPath(t *testing.T) {
	var calls atomic.Int32
	table := newTestTable(t, &calls)

	for _, p := range []string{"/login", "/login/", "login", "/login?next=/", "//login"} {
		r, ok := table.Lookup(p)
		require.True(t, ok, p)
		assert.Equal(t, "/login", r.Path)
	}

	_, ok := table.Lookup("/signup")
	assert.False(t, ok)
}

func TestResolveEagerDoesNotLoad(t *testing.T) {
	var calls atomic.Int32
	table := newTestTable(t, &calls)
	r := WebHistory{}.New(table)

	m, err := r.Resolve(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, core.ActionRenderEager, m.Action)
	assert.Equal(t, "home", m.Component.Name())
	assert.Zero(t, calls.Load())
	assert.False(t, table.Loaded("/login"))
}

func TestResolveLazyLoadsOnceAcrossRouters(t *testing.T) {
	var calls atomic.Int32
	table := newTestTable(t, &calls)

	first := WebHistory{}.New(table)
	m, err := first.Push(context.Background(), "/login")
	require.NoError(t, err)
	assert.Equal(t, core.ActionLoadLazy, m.Action)
	assert.Equal(t, "login", m.Component.Name())

	_, err = first.Push(context.Background(), "/")
	require.NoError(t, err)
	_, err = first.Push(context.Background(), "/login")
	require.NoError(t, err)

	second := WebHistory{}.New(table)
	m, err = second.Push(context.Background(), "/login")
	require.NoError(t, err)
	assert.Equal(t, core.ActionRenderCached, m.Action)

	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, 1, table.Loads("/login"))
}

func TestResolveLazyConcurrentFirstNavigation(t *testing.T) {
	const navigations = 8

	var calls atomic.Int32
	inLoader := make(chan struct{})
	release := make(chan struct{})
	table, err := NewTable(Lazy("/login", "login", func(context.Context) (component.Component, error) {
		if calls.Add(1) == 1 {
			close(inLoader)
		}
		<-release
		return component.Static("login", "ok"), nil
	}))
	require.NoError(t, err)

	start := make(chan struct{})
	var ready, wg sync.WaitGroup
	errs := make(chan error, navigations)
	for range navigations {
		ready.Add(1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := WebHistory{}.New(table)
			ready.Done()
			<-start
			_, err := r.Push(context.Background(), "/login")
			errs <- err
		}()
	}

	ready.Wait()
	close(start)
	<-inLoader
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, 1, table.Loads("/login"))
	assert.True(t, table.Loaded("/login"))
}

func TestResolveLazyFailureIsNotCached(t *testing.T) {
	var calls atomic.Int32
	table, err := NewTable(Lazy("/login", "login", func(context.Context) (component.Component, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("chunk unavailable")
		}
		return component.Static("login", "ok"), nil
	}))
	require.NoError(t, err)
	r := WebHistory{}.New(table)

	_, err = r.Push(context.Background(), "/login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk unavailable")
	assert.False(t, table.Loaded("/login"))
	_, ok := r.Current()
	assert.False(t, ok)

	m, err := r.Push(context.Background(), "/login")
	require.NoError(t, err)
	assert.Equal(t, "login", m.Component.Name())
	assert.EqualValues(t, 2, calls.Load())
}

func TestResolveUnknownPath(t *testing.T) {
	var calls atomic.Int32
	table := newTestTable(t, &calls)

	_, err := WebHistory{}.New(table).Resolve(context.Background(), "/missing")
	assert.ErrorIs(t, err, ErrNoRoute)

	withFallback := WebHistory{}.New(table, WithFallback(component.Static("not-found", "nope")))
	m, err := withFallback.Resolve(context.Background(), "/missing")
	require.NoError(t, err)
	assert.True(t, m.Fallback())
	assert.Equal(t, "not-found", m.Component.Name())
}

func TestResolveUnderBase(t *testing.T) {
	var calls atomic.Int32
	table := newTestTable(t, &calls)
	r := WebHistory{Base: "/app/"}.New(table)

	assert.Equal(t, "/app", r.Base())

	m, err := r.Resolve(context.Background(), "/app")
	require.NoError(t, err)
	assert.Equal(t, "/", m.Path)

	m, err = r.Resolve(context.Background(), "/app/login")
	require.NoError(t, err)
	assert.Equal(t, "/login", m.Path)
}

func TestBackAndCurrent(t *testing.T) {
	var calls atomic.Int32
	r := WebHistory{}.New(newTestTable(t, &calls))

	_, err := r.Back()
	assert.ErrorIs(t, err, ErrNoHistory)

	_, err = r.Push(context.Background(), "/")
	require.NoError(t, err)
	_, err = r.Push(context.Background(), "/login")
	require.NoError(t, err)
	assert.Equal(t, "/login", r.CurrentPath())

	m, err := r.Back()
	require.NoError(t, err)
	assert.Equal(t, "/", m.Path)
	assert.Equal(t, "/", r.CurrentPath())

	_, err = r.Back()
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestRouterAsAppOutlet(t *testing.T) {
	var calls atomic.Int32
	r := WebHistory{}.New(newTestTable(t, &calls))

	root, err := component.NewTemplate("app", `<main>{{.Outlet}}</main>`)
	require.NoError(t, err)
	a := app.New(root)
	require.NoError(t, a.Use(r))

	_, err = a.Mount(context.Background(), strings.NewReader(`<div id="app"></div>`), "#app")
	assert.ErrorIs(t, err, ErrNoRoute, "mounting before navigation has nothing to render")

	_, err = r.Push(context.Background(), "/")
	require.NoError(t, err)
	out, err := a.Mount(context.Background(), strings.NewReader(`<div id="app"></div>`), "#app")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<main><h1>Home</h1></main>")
}
