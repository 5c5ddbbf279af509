package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Open opens (or creates) the on-device sqlite database and bootstraps the
// schema. The file holds the only state the client persists: the auth
// session and an offline cache of confirmed bookings.
func Open(path string) (*sqlx.DB, error) {
	if path == "" {
		path = "gymapp.db"
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite with a single writer; more connections just contend.
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS session (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create session table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS cached_bookings (
			booking_id INTEGER PRIMARY KEY,
			gym_id INTEGER NOT NULL,
			gym_name TEXT NOT NULL,
			slot_id INTEGER NOT NULL,
			booking_date TEXT NOT NULL,
			amount REAL NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create cached_bookings table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_cached_bookings_date ON cached_bookings(booking_date)`)
	if err != nil {
		return fmt.Errorf("failed to create booking date index: %w", err)
	}

	return nil
}
