package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/3-lines-studio/gacha/internal/logging"
)

type RouterConfig struct {
	Pages  http.Handler
	Assets http.Handler
	// Auth is mounted under /auth when set.
	Auth     http.Handler
	Sessions func(http.Handler) http.Handler
	Logger   *logging.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	if cfg.Sessions != nil {
		r.Use(cfg.Sessions)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.Assets != nil {
		assets := http.StripPrefix("/assets", cfg.Assets)
		r.Get("/assets/*", assets.ServeHTTP)
		r.Head("/assets/*", assets.ServeHTTP)
	}
	if cfg.Auth != nil {
		r.Mount("/auth", cfg.Auth)
	}

	r.Get("/*", cfg.Pages.ServeHTTP)
	r.Head("/*", cfg.Pages.ServeHTTP)
	return r
}
