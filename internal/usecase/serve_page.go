package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/3-lines-studio/gacha/internal/app"
	"github.com/3-lines-studio/gacha/internal/component"
	"github.com/3-lines-studio/gacha/internal/core"
	"github.com/3-lines-studio/gacha/internal/router"
	"github.com/3-lines-studio/gacha/internal/store"
)

const SessionSlice = "session"

type ServePageInput struct {
	RequestPath string
	Request     *http.Request
}

type ServePageOutput struct {
	Action    core.RouteAction
	HTML      []byte
	RoutePath string
	View      string
	Plugins   []string
	Error     error
}

type PageConfig struct {
	Table         *router.Table
	History       router.Factory
	RouterOptions []router.Option
	Root          component.Component
	Shell         []byte
	State         StateProvider
}

// PageService runs the client bootstrap for every page load: a fresh app
// gets a store, then a router, navigates to the request path and is
// mounted into the shell's anchor.
type PageService struct {
	cfg PageConfig
}

func NewPageService(cfg PageConfig) *PageService {
	if cfg.History == nil {
		cfg.History = router.WebHistory{}
	}
	return &PageService{cfg: cfg}
}

func (s *PageService) ServePage(ctx context.Context, input ServePageInput) ServePageOutput {
	a := app.New(s.cfg.Root)

	st := store.New()
	if err := st.Define(SessionSlice, s.sessionState(input.Request)); err != nil {
		return ServePageOutput{Error: err}
	}
	if err := a.Use(st); err != nil {
		return ServePageOutput{Error: err}
	}

	r := s.cfg.History.New(s.cfg.Table, s.cfg.RouterOptions...)
	if err := a.Use(r); err != nil {
		return ServePageOutput{Error: err}
	}

	match, err := r.Push(ctx, input.RequestPath)
	if err != nil {
		if errors.Is(err, router.ErrNoRoute) {
			return ServePageOutput{Action: core.ActionNotFound, Plugins: a.Plugins()}
		}
		return ServePageOutput{
			Action: core.ActionLoadLazy,
			Error:  err,
		}
	}

	html, err := a.Mount(ctx, bytes.NewReader(s.cfg.Shell), "#"+core.DefaultAnchorID)
	if err != nil {
		return ServePageOutput{
			Action: match.Action,
			Error:  fmt.Errorf("mount %s: %w", match.Path, err),
		}
	}

	return ServePageOutput{
		Action:    match.Action,
		HTML:      html,
		RoutePath: match.Path,
		View:      match.Component.Name(),
		Plugins:   a.Plugins(),
	}
}

func (s *PageService) sessionState(r *http.Request) map[string]any {
	if s.cfg.State == nil || r == nil {
		return map[string]any{"authenticated": false, "user": nil}
	}
	return s.cfg.State(r)
}
