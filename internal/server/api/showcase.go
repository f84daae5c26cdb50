package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/folio/internal/showcase"
)

// Navigator is the carousel cursor driven by gestures and by this API.
type Navigator interface {
	Current() showcase.Section
	Next() showcase.Section
	Prev() showcase.Section
}

// ShowcaseHandler exposes the carousel position.
type ShowcaseHandler struct {
	nav Navigator
}

// NewShowcaseHandler creates a new ShowcaseHandler for nav.
func NewShowcaseHandler(nav Navigator) *ShowcaseHandler {
	return &ShowcaseHandler{nav: nav}
}

// ServeHTTP routes /api/showcase, /api/showcase/next and /api/showcase/prev.
func (h *ShowcaseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.TrimPrefix(r.URL.Path, "/api/showcase")
	action = strings.Trim(action, "/")

	switch action {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, h.nav.Current())
	case "next", "prev":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if action == "next" {
			writeJSON(w, http.StatusOK, h.nav.Next())
		} else {
			writeJSON(w, http.StatusOK, h.nav.Prev())
		}
	default:
		writeError(w, http.StatusNotFound, "unknown showcase action")
	}
}
