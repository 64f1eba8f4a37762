// Package ledger provides an append-only log of every command dispatched to
// a gateway, for auditing a protocol that confirms nothing.
package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry represents a single dispatched operation in the log
type Entry struct {
	ID        string
	Gateway   string
	Group     int
	Operation string
	Args      map[string]any
	Frames    int
	IssuedAt  time.Time
}

// Ledger provides append-only command logging
type Ledger struct {
	db *sql.DB
}

// New creates a new Ledger using the provided database connection
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Append records a dispatched operation and returns the entry ID. frames is
// the number of datagrams the operation produced on the wire.
func (l *Ledger) Append(gateway string, group int, operation string, args map[string]any, frames int) (string, error) {
	var argsJSON []byte
	var err error

	if args != nil {
		argsJSON, err = json.Marshal(args)
		if err != nil {
			return "", fmt.Errorf("failed to marshal args: %w", err)
		}
	}

	id := uuid.NewString()
	now := time.Now().UTC().Unix()

	_, err = l.db.Exec(
		`INSERT INTO command_log (id, gateway, grp, operation, args, frames, issued_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, gateway, group, operation, string(argsJSON), frames, now,
	)
	if err != nil {
		return "", fmt.Errorf("failed to append command log entry: %w", err)
	}

	return id, nil
}

// Recent returns the newest entries, most recent first
func (l *Ledger) Recent(limit int) ([]*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, gateway, grp, operation, args, frames, issued_at
		FROM command_log
		ORDER BY issued_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return l.scanEntries(rows)
}

// RecentByGateway returns the newest entries for one gateway label
func (l *Ledger) RecentByGateway(gateway string, limit int) ([]*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, gateway, grp, operation, args, frames, issued_at
		FROM command_log
		WHERE gateway = ?
		ORDER BY issued_at DESC, id
		LIMIT ?
	`, gateway, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return l.scanEntries(rows)
}

// Cleanup removes entries older than the retention window
func (l *Ledger) Cleanup(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UTC().Unix()
	res, err := l.db.Exec(`DELETE FROM command_log WHERE issued_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (l *Ledger) scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		var e Entry
		var argsJSON sql.NullString
		var issuedAt int64

		if err := rows.Scan(&e.ID, &e.Gateway, &e.Group, &e.Operation, &argsJSON, &e.Frames, &issuedAt); err != nil {
			return nil, err
		}

		if argsJSON.Valid && argsJSON.String != "" {
			if err := json.Unmarshal([]byte(argsJSON.String), &e.Args); err != nil {
				return nil, fmt.Errorf("failed to unmarshal args for %s: %w", e.ID, err)
			}
		}
		e.IssuedAt = time.Unix(issuedAt, 0).UTC()

		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
