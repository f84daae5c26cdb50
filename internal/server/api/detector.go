package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/folio/internal/app"
)

// Controller is the gesture control loop as seen by the API.
type Controller interface {
	Status() app.Status
	SetEnabled(enabled bool)
}

// DetectorHandler reports and toggles gesture control.
type DetectorHandler struct {
	ctrl Controller
}

// NewDetectorHandler creates a new DetectorHandler for ctrl.
func NewDetectorHandler(ctrl Controller) *DetectorHandler {
	return &DetectorHandler{ctrl: ctrl}
}

type setDetectorRequest struct {
	Enabled *bool `json:"enabled"`
}

// ServeHTTP handles GET and POST on /api/detector.
func (h *DetectorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.ctrl.Status())
	case http.MethodPost:
		h.set(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// set handles POST /api/detector. Enabling blocks until the camera is
// acquired or refused, so the returned status reflects the outcome.
func (h *DetectorHandler) set(w http.ResponseWriter, r *http.Request) {
	var req setDetectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled is required")
		return
	}

	h.ctrl.SetEnabled(*req.Enabled)
	writeJSON(w, http.StatusOK, h.ctrl.Status())
}
