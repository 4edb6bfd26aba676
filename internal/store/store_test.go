package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/gacha/internal/app"
	"github.com/3-lines-studio/gacha/internal/component"
)

func TestDefineGetSet(t *testing.T) {
	s := New()
	require.NoError(t, s.Define("session", map[string]any{"authenticated": false}))

	v, ok := s.Get("session", "authenticated")
	require.True(t, ok)
	assert.Equal(t, false, v)

	require.NoError(t, s.Set("session", "authenticated", true))
	v, _ = s.Get("session", "authenticated")
	assert.Equal(t, true, v)

	_, ok = s.Get("session", "user")
	assert.False(t, ok)
	_, ok = s.Get("cart", "items")
	assert.False(t, ok)
}

func TestDefineTwiceFails(t *testing.T) {
	s := New()
	require.NoError(t, s.Define("session", nil))
	assert.ErrorIs(t, s.Define("session", nil), ErrSliceExists)
	assert.Error(t, s.Define("", nil))
}

func TestSetUnknownSliceFails(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.Set("cart", "items", 1), ErrUnknownSlice)
}

func TestDefineCopiesInitialValues(t *testing.T) {
	initial := map[string]any{"count": 1}
	s := New()
	require.NoError(t, s.Define("counter", initial))

	initial["count"] = 2
	v, _ := s.Get("counter", "count")
	assert.Equal(t, 1, v)
}

func TestSnapshotIsDetached(t *testing.T) {
	s := New()
	require.NoError(t, s.Define("session", map[string]any{"authenticated": false}))

	snap := s.Snapshot()
	snap["session"]["authenticated"] = true

	v, _ := s.Get("session", "authenticated")
	assert.Equal(t, false, v)
}

func TestSubscribeReceivesChanges(t *testing.T) {
	s := New()
	require.NoError(t, s.Define("session", nil))

	ch, cancel := s.Subscribe()
	require.NoError(t, s.Set("session", "authenticated", true))

	change := <-ch
	assert.Equal(t, Change{Slice: "session", Key: "authenticated", Value: true}, change)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)

	require.NoError(t, s.Set("session", "authenticated", false))
}

func TestInstallExposesState(t *testing.T) {
	s := New()
	require.NoError(t, s.Define("session", map[string]any{"authenticated": true}))

	root, err := component.NewTemplate("app", `{{if index .State "session" "authenticated"}}signed in{{end}}`)
	require.NoError(t, err)
	a := app.New(root)
	require.NoError(t, a.Use(s))

	out, err := a.Mount(context.Background(), strings.NewReader(`<div id="app"></div>`), "#app")
	require.NoError(t, err)
	assert.Contains(t, string(out), `<div id="app">signed in</div>`)
	assert.Contains(t, string(out), `{"session":{"authenticated":true}}`)
}
