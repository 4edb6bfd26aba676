package gacha

import (
	"context"
	"embed"
	"errors"
	"fmt"
	iofs "io/fs"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/3-lines-studio/gacha/internal/adapters/fs"
	adaptershttp "github.com/3-lines-studio/gacha/internal/adapters/http"
	"github.com/3-lines-studio/gacha/internal/auth"
	"github.com/3-lines-studio/gacha/internal/component"
	"github.com/3-lines-studio/gacha/internal/config"
	"github.com/3-lines-studio/gacha/internal/core"
	"github.com/3-lines-studio/gacha/internal/logging"
	"github.com/3-lines-studio/gacha/internal/router"
	"github.com/3-lines-studio/gacha/internal/session"
	"github.com/3-lines-studio/gacha/internal/usecase"
	"github.com/3-lines-studio/gacha/internal/users"
)

//go:embed all:web
var webFS embed.FS

const (
	ShellFile = "index.html"
	RootView  = "src/App.html"
	HomeView  = "src/views/Home.md"
	LoginView = "src/views/Login.html"
	ThemeFile = "theme.yaml"
	PublicDir = "public"
	MainCSS   = "main.css"

	shutdownTimeout = 5 * time.Second
)

// Web returns the embedded client tree rooted at web/.
func Web() iofs.FS {
	sub, err := iofs.Sub(webFS, "web")
	if err != nil {
		panic(fmt.Sprintf("gacha: embedded web tree: %v", err))
	}
	return sub
}

// Routes builds the client route table: the home view resolved up front and
// the login view loaded on first navigation.
func Routes(web iofs.FS) (*router.Table, error) {
	home, err := component.Load(web, HomeView)
	if err != nil {
		return nil, err
	}
	return router.NewTable(
		router.Eager("/", home),
		router.Lazy("/login", core.ViewName(LoginView), component.Deferred(web, LoginView)),
	)
}

type Option func(*options)

type options struct {
	web      iofs.FS
	fallback component.Component
}

// WithWeb replaces the embedded client tree.
func WithWeb(web iofs.FS) Option {
	return func(o *options) {
		o.web = web
	}
}

// WithFallback renders c for paths no route matches instead of the 404 page.
func WithFallback(c component.Component) Option {
	return func(o *options) {
		o.fallback = c
	}
}

// App is a configured gacha server.
type App struct {
	cfg      config.Config
	log      *logging.Logger
	web      iofs.FS
	table    *router.Table
	sheet    usecase.Stylesheet
	sessions *session.Manager
	users    *users.Repository
	handler  http.Handler

	cancel   context.CancelFunc
	sweeping sync.WaitGroup
	stopOnce sync.Once
}

func New(cfg config.Config, log *logging.Logger, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.web == nil {
		o.web = Web()
	}

	a := &App{cfg: cfg, log: log, web: o.web}

	table, err := Routes(o.web)
	if err != nil {
		return nil, fmt.Errorf("route table: %w", err)
	}
	a.table = table

	fallback := o.fallback
	if fallback == nil && cfg.FallbackView != "" {
		if fallback, err = component.Load(o.web, cfg.FallbackView); err != nil {
			return nil, fmt.Errorf("fallback view: %w", err)
		}
	}

	a.sheet, err = a.compileTheme()
	if err != nil {
		return nil, fmt.Errorf("compile theme: %w", err)
	}
	log.Info("theme compiled", map[string]any{
		"stylesheet": a.sheet.Name,
		"files":      len(a.sheet.Files),
		"classes":    len(a.sheet.Classes),
	})

	root, err := component.Load(o.web, RootView)
	if err != nil {
		return nil, fmt.Errorf("root view: %w", err)
	}

	shellSrc, err := iofs.ReadFile(o.web, ShellFile)
	if err != nil {
		return nil, fmt.Errorf("read shell: %w", err)
	}
	shell, err := core.RenderShell(string(shellSrc), core.ShellData{
		Title:       "gacha",
		Stylesheets: []string{"/assets/" + MainCSS, "/assets/" + a.sheet.Name},
	})
	if err != nil {
		return nil, err
	}

	a.sessions, err = session.NewManager(session.Options{
		HashKey:  cfg.SessionHashKey,
		BlockKey: cfg.SessionBlockKey,
		TTL:      cfg.SessionTTL,
		Insecure: cfg.IsDev(),
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	pages := usecase.PageConfig{
		Table: table,
		Root:  root,
		Shell: shell,
	}
	if fallback != nil {
		pages.RouterOptions = append(pages.RouterOptions, router.WithFallback(fallback))
	}

	var authRoutes http.Handler
	if cfg.AuthEnabled() {
		repo, err := users.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		a.users = repo

		discord := auth.NewDiscord(auth.Config{
			ClientID:     cfg.Discord.ClientID,
			ClientSecret: cfg.Discord.ClientSecret,
			RedirectURL:  cfg.Discord.RedirectURL,
		}, a.sessions, repo, log)
		authRoutes = discord.Routes()
		pages.State = discord.State
	} else {
		log.Info("discord login disabled", map[string]any{"reason": "DISCORD_CLIENT_ID not set"})
	}

	public, err := iofs.Sub(o.web, PublicDir)
	if err != nil {
		_ = a.closeStore()
		return nil, fmt.Errorf("public assets: %w", err)
	}

	a.handler = adaptershttp.NewRouter(adaptershttp.RouterConfig{
		Pages:    adaptershttp.NewPageHandler(usecase.NewPageService(pages), cfg.IsDev(), log),
		Assets:   adaptershttp.NewAssetHandler(public, map[string][]byte{a.sheet.Name: a.sheet.CSS}, cfg.IsDev()),
		Auth:     authRoutes,
		Sessions: a.sessions.Middleware,
		Logger:   log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.sweeping.Add(1)
	go func() {
		defer a.sweeping.Done()
		a.sessions.Run(ctx, cfg.SessionSweep)
	}()

	return a, nil
}

// compileTheme reads the theme config from the client tree, or from disk
// when a theme path is configured. Content globs are relative to the
// config's directory.
func (a *App) compileTheme() (usecase.Stylesheet, error) {
	if a.cfg.ThemePath == "" {
		return usecase.CompileTheme(a.web, ThemeFile)
	}
	dir := fs.NewOSFileSystem(filepath.Dir(a.cfg.ThemePath))
	return usecase.CompileTheme(dir, filepath.Base(a.cfg.ThemePath))
}

func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) Table() *router.Table {
	return a.table
}

func (a *App) Stylesheet() usecase.Stylesheet {
	return a.sheet
}

func (a *App) Sessions() *session.Manager {
	return a.sessions
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts the server down gracefully.
func (a *App) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Info("listening", map[string]any{"addr": a.cfg.Addr, "mode": a.cfg.Mode.String()})
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Stop ends the session sweeper and closes the user store.
func (a *App) Stop() error {
	var err error
	a.stopOnce.Do(func() {
		if a.cancel != nil {
			a.cancel()
		}
		a.sweeping.Wait()
		err = a.closeStore()
	})
	return err
}

func (a *App) closeStore() error {
	if a.users == nil {
		return nil
	}
	return a.users.Close()
}
