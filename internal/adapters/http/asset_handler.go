package http

import (
	iofs "io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/3-lines-studio/gacha/internal/core"
)

// AssetHandler serves build output held in memory first and files from the
// public tree second. Paths are relative to the mount point.
type AssetHandler struct {
	public    iofs.FS
	generated map[string][]byte
	isDev     bool
}

func NewAssetHandler(public iofs.FS, generated map[string][]byte, isDev bool) http.Handler {
	return &AssetHandler{
		public:    public,
		generated: generated,
		isDev:     isDev,
	}
}

func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+req.URL.Path), "/")
	if name == "" || name == "." {
		http.NotFound(w, req)
		return
	}

	if data, ok := h.generated[name]; ok {
		h.write(w, req, name, data, true)
		return
	}

	if h.public == nil {
		http.NotFound(w, req)
		return
	}
	info, err := iofs.Stat(h.public, name)
	if err != nil || info.IsDir() {
		http.NotFound(w, req)
		return
	}
	data, err := iofs.ReadFile(h.public, name)
	if err != nil {
		http.NotFound(w, req)
		return
	}
	h.write(w, req, name, data, false)
}

func (h *AssetHandler) write(w http.ResponseWriter, req *http.Request, name string, data []byte, fingerprinted bool) {
	etag := `"` + core.HashContent(data) + `"`
	if match := req.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", core.GetContentType(name))
	w.Header().Set("ETag", etag)
	switch {
	case h.isDev:
		w.Header().Set("Cache-Control", "no-cache")
	case fingerprinted:
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	default:
		w.Header().Set("Cache-Control", "public, max-age=3600")
	}

	if req.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(data)
}
