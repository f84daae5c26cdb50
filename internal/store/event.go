package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Event represents a fired gesture stored in the journal.
type Event struct {
	ID        string
	Direction string
	FromX     float64
	FromY     float64
	ToX       float64
	ToY       float64
	Delta     float64
	// Section is the showcase section the gesture moved to, or -1.
	Section    int
	OccurredAt time.Time
}

// EventRepository provides access to journalled gesture events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts a new event. A zero OccurredAt is set to now.
func (r *EventRepository) Record(e *Event) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO gesture_events (id, direction, from_x, from_y, to_x, to_y, delta, section, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Direction, e.FromX, e.FromY, e.ToX, e.ToY, e.Delta, e.Section, e.OccurredAt.UTC(),
	)
	return err
}

// GetByID retrieves an event by its ID.
func (r *EventRepository) GetByID(id string) (*Event, error) {
	e := &Event{}

	err := r.db.QueryRow(
		`SELECT id, direction, from_x, from_y, to_x, to_y, delta, section, occurred_at
		 FROM gesture_events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Direction, &e.FromX, &e.FromY, &e.ToX, &e.ToY, &e.Delta, &e.Section, &e.OccurredAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return e, nil
}

// Recent returns up to limit events, newest first.
func (r *EventRepository) Recent(limit int) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, direction, from_x, from_y, to_x, to_y, delta, section, occurred_at
		 FROM gesture_events ORDER BY occurred_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Direction, &e.FromX, &e.FromY, &e.ToX, &e.ToY, &e.Delta, &e.Section, &e.OccurredAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// CountByDirection returns the number of events per direction.
func (r *EventRepository) CountByDirection() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT direction, COUNT(*) FROM gesture_events GROUP BY direction`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var direction string
		var n int
		if err := rows.Scan(&direction, &n); err != nil {
			return nil, err
		}
		counts[direction] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// Clear removes every journalled event.
func (r *EventRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM gesture_events`)
	return err
}
