// Package store provides a transient SQLite journal of fired gestures.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// MemoryDSN keeps the journal in memory for the life of the process.
const MemoryDSN = ":memory:"

// Store represents a SQLite database connection for the gesture journal.
type Store struct {
	db   *sql.DB
	path string
}

// New creates a new Store with the given data source. An empty dsn uses MemoryDSN.
// It opens the database connection, enables foreign keys, and runs migrations.
func New(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database, so pin one.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dsn,
	}

	// Run migrations
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the data source the store was opened with.
func (s *Store) Path() string {
	return s.path
}
