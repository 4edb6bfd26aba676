package http

import (
	"bytes"
	"html"
	"net/http"

	"github.com/3-lines-studio/gacha/internal/core"
	"github.com/3-lines-studio/gacha/internal/logging"
	"github.com/3-lines-studio/gacha/internal/usecase"
)

type PageHandler struct {
	service *usecase.PageService
	isDev   bool
	log     *logging.Logger
}

func NewPageHandler(service *usecase.PageService, isDev bool, log *logging.Logger) http.Handler {
	return &PageHandler{
		service: service,
		isDev:   isDev,
		log:     log,
	}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	output := h.service.ServePage(req.Context(), usecase.ServePageInput{
		RequestPath: req.URL.Path,
		Request:     req,
	})

	log := h.log.With(map[string]any{"request_id": RequestID(req.Context())})

	if output.Error != nil {
		log.Error(output.Error, "page failed", map[string]any{"path": req.URL.Path, "action": output.Action.String()})
		h.serveError(w, http.StatusInternalServerError, "Internal Server Error", output.Error.Error())
		return
	}

	switch output.Action {
	case core.ActionNotFound:
		h.serveError(w, http.StatusNotFound, "Not Found", "no route matches "+req.URL.Path)
	case core.ActionRenderFallback:
		h.serveHTML(w, http.StatusNotFound, output.HTML)
	default:
		log.Debug("page rendered", map[string]any{"path": output.RoutePath, "view": output.View, "action": output.Action.String()})
		h.serveHTML(w, http.StatusOK, output.HTML)
	}
}

func (h *PageHandler) serveHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (h *PageHandler) serveError(w http.ResponseWriter, status int, title, message string) {
	data := core.ErrorData{
		Status:  status,
		Title:   title,
		Message: message,
		IsDev:   h.isDev,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var buf bytes.Buffer
	if err := core.ErrorTemplate.Execute(&buf, data); err != nil {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("<!doctype html><html><body><pre>" + html.EscapeString(message) + "</pre></body></html>"))
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
