package handler

import (
	"net/http"
	"strings"

	"github.com/futurenote/futurenote/internal/ui"
	"github.com/futurenote/futurenote/internal/ui/pages"
)

type HomeHandler struct {
	site pages.Site
}

func NewHomeHandler(site pages.Site) *HomeHandler {
	return &HomeHandler{site: site}
}

// NotFound answers JSON under /api/ and an HTML page elsewhere.
func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	ui.RenderStatus(w, r, http.StatusNotFound,
		pages.Error(h.site, "Page not found", "The page you are looking for does not exist."))
}
