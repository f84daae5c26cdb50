package api

import (
	"net/http"
	"time"

	"github.com/spf13/cast"

	"github.com/ayusman/folio/internal/store"
)

// Limits for GET /api/events.
const (
	DefaultEventLimit = 20
	MaxEventLimit     = 100
)

// EventsHandler lists journalled gestures.
type EventsHandler struct {
	store *store.Store
}

// NewEventsHandler creates a new EventsHandler with the given store.
func NewEventsHandler(s *store.Store) *EventsHandler {
	return &EventsHandler{store: s}
}

type eventResponse struct {
	ID         string  `json:"id"`
	Direction  string  `json:"direction"`
	FromX      float64 `json:"from_x"`
	FromY      float64 `json:"from_y"`
	ToX        float64 `json:"to_x"`
	ToY        float64 `json:"to_y"`
	Delta      float64 `json:"delta"`
	Section    int     `json:"section"`
	OccurredAt string  `json:"occurred_at"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
	Counts map[string]int  `json:"counts"`
}

func toEventResponse(e *store.Event) eventResponse {
	return eventResponse{
		ID:         e.ID,
		Direction:  e.Direction,
		FromX:      e.FromX,
		FromY:      e.FromY,
		ToX:        e.ToX,
		ToY:        e.ToY,
		Delta:      e.Delta,
		Section:    e.Section,
		OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
}

// ServeHTTP handles GET /api/events?limit=N.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := DefaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := cast.ToIntE(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > MaxEventLimit {
		limit = MaxEventLimit
	}

	events, err := h.store.Events().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	counts, err := h.store.Events().CountByDirection()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count events")
		return
	}

	resp := listEventsResponse{
		Events: make([]eventResponse, 0, len(events)),
		Counts: counts,
	}
	for _, e := range events {
		resp.Events = append(resp.Events, toEventResponse(e))
	}

	writeJSON(w, http.StatusOK, resp)
}
