package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Gesture events table - one row per fired swipe
		`CREATE TABLE IF NOT EXISTS gesture_events (
			id TEXT PRIMARY KEY,
			direction TEXT NOT NULL CHECK(direction IN ('left', 'right')),
			from_x REAL NOT NULL,
			from_y REAL NOT NULL,
			to_x REAL NOT NULL,
			to_y REAL NOT NULL,
			delta REAL NOT NULL,
			section INTEGER NOT NULL DEFAULT -1,
			occurred_at DATETIME NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_gesture_events_occurred_at ON gesture_events(occurred_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
