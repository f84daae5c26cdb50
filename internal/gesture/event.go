package gesture

import (
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/folio/internal/detector"
)

// Event is a fired swipe as published on the Bus.
type Event struct {
	ID        uuid.UUID         `json:"id"`
	Direction Direction         `json:"direction"`
	From      detector.Centroid `json:"from"`
	To        detector.Centroid `json:"to"`
	Delta     float64           `json:"delta"`
	At        time.Time         `json:"at"`
}

// NewEvent stamps a swipe with a fresh id and time.
func NewEvent(s Swipe, at time.Time) Event {
	return Event{
		ID:        uuid.New(),
		Direction: s.Direction,
		From:      s.From,
		To:        s.To,
		Delta:     s.Delta,
		At:        at,
	}
}
