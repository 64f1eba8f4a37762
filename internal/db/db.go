// Package db provides the SQLite connection and schema for milightd.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
}

// Open opens the database and initializes the schema
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db}, nil
}

// initSchema creates all required tables
func initSchema(db *sql.DB) error {
	// Command log - append-only history of every operation dispatched to a
	// gateway. The protocol is fire-and-forget, so this is the only record
	// of what was asked of the hardware.
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS command_log (
			id TEXT PRIMARY KEY,
			gateway TEXT NOT NULL,
			grp INTEGER NOT NULL,
			operation TEXT NOT NULL,
			args TEXT,
			frames INTEGER NOT NULL DEFAULT 0,
			issued_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_command_log_ts ON command_log(issued_at);
		CREATE INDEX IF NOT EXISTS idx_command_log_gateway ON command_log(gateway, issued_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to create command_log table: %w", err)
	}

	return nil
}
