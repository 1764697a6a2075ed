// Package tenantstore provides persistent storage for tenant selection.
//
// The selected tenant is remembered per server so that a user working
// across several backends returns to the tenant they were last
// operating on, and recently used tenants surface first in the picker.
//
// Storage is backed by a SQLite database at ~/.config/opsdash/tenants.db
// (or the platform-equivalent path returned by os.UserConfigDir).
package tenantstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	appDir = "opsdash"
	dbFile = "tenants.db"
)

// pathOverride, when non-empty, replaces the default database path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the database path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// Usage is one tenant's selection history on a server.
type Usage struct {
	// Server is the normalized server the tenant belongs to.
	Server string

	// TenantID is the operator-facing tenant identifier.
	TenantID string

	// Name is the tenant's display name as of the last selection.
	Name string

	// Selections counts how many times the tenant was made current.
	Selections int

	// LastUsed is when the tenant was last made current.
	LastUsed time.Time

	// Current marks the tenant currently selected on the server.
	Current bool
}

// Store defines the persistence interface for tenant selection.
type Store interface {
	// SetCurrent makes the tenant current on the server and records
	// the selection in the usage history.
	SetCurrent(server, tenantID, name string) error

	// Current returns the tenant currently selected on the server, or
	// nil when no selection has been made.
	Current(server string) (*Usage, error)

	// RecentlyUsed returns up to n tenants for the server ordered by
	// last use (newest first).
	RecentlyUsed(server string, n int) ([]Usage, error)

	// Clear forgets the current selection on the server. Usage history
	// is kept.
	Clear(server string) error

	// Close releases database resources.
	Close() error
}

// SQLiteStore implements Store backed by a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// DefaultPath returns the default database path.
func DefaultPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("tenantstore: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, dbFile), nil
}

// Open creates or opens the tenant store at the default path.
func Open() (*SQLiteStore, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
// The parent directory is created if it does not exist.
func OpenAt(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tenantstore: failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("tenantstore: failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// migrate creates the usage table if it doesn't exist.
func (s *SQLiteStore) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS tenant_usage (
			server     TEXT    NOT NULL,
			tenant_id  TEXT    NOT NULL,
			name       TEXT    NOT NULL DEFAULT '',
			selections INTEGER NOT NULL DEFAULT 0,
			last_used  TEXT    NOT NULL DEFAULT (datetime('now')),
			current    INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (server, tenant_id)
		);
		CREATE INDEX IF NOT EXISTS idx_tenant_usage_last_used ON tenant_usage(server, last_used);
	`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("tenantstore: migration failed: %w", err)
	}
	return nil
}

// SetCurrent makes the tenant current on the server, upserting its
// usage row and demoting any previous selection.
func (s *SQLiteStore) SetCurrent(server, tenantID, name string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("tenantstore: begin failed: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE tenant_usage SET current = 0 WHERE server = ?`, server); err != nil {
		return fmt.Errorf("tenantstore: demote failed: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO tenant_usage (server, tenant_id, name, selections, last_used, current)
		VALUES (?, ?, ?, 1, ?, 1)
		ON CONFLICT(server, tenant_id) DO UPDATE SET
			name       = excluded.name,
			selections = selections + 1,
			last_used  = excluded.last_used,
			current    = 1`,
		server, tenantID, name, now,
	)
	if err != nil {
		return fmt.Errorf("tenantstore: upsert failed: %w", err)
	}

	return tx.Commit()
}

// Current returns the tenant currently selected on the server.
func (s *SQLiteStore) Current(server string) (*Usage, error) {
	row := s.db.QueryRow(`
		SELECT server, tenant_id, name, selections, last_used, current
		FROM tenant_usage WHERE server = ? AND current = 1`, server)

	u, err := scanRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tenantstore: query failed: %w", err)
	}
	return u, nil
}

// RecentlyUsed returns up to n tenants ordered by last use.
func (s *SQLiteStore) RecentlyUsed(server string, n int) ([]Usage, error) {
	rows, err := s.db.Query(`
		SELECT server, tenant_id, name, selections, last_used, current
		FROM tenant_usage WHERE server = ?
		ORDER BY last_used DESC LIMIT ?`, server, n)
	if err != nil {
		return nil, fmt.Errorf("tenantstore: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Clear forgets the current selection on the server.
func (s *SQLiteStore) Clear(server string) error {
	if _, err := s.db.Exec(`UPDATE tenant_usage SET current = 0 WHERE server = ?`, server); err != nil {
		return fmt.Errorf("tenantstore: clear failed: %w", err)
	}
	return nil
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanRow scans a single row into a Usage.
func scanRow(row *sql.Row) (*Usage, error) {
	var u Usage
	var lastUsed string
	var current int
	if err := row.Scan(&u.Server, &u.TenantID, &u.Name, &u.Selections, &lastUsed, &current); err != nil {
		return nil, err
	}
	u.LastUsed, _ = time.Parse(time.RFC3339Nano, lastUsed)
	u.Current = current != 0
	return &u, nil
}

// scanRows scans multiple rows into Usages.
func scanRows(rows *sql.Rows) ([]Usage, error) {
	var out []Usage
	for rows.Next() {
		var u Usage
		var lastUsed string
		var current int
		if err := rows.Scan(&u.Server, &u.TenantID, &u.Name, &u.Selections, &lastUsed, &current); err != nil {
			return nil, fmt.Errorf("tenantstore: scan failed: %w", err)
		}
		u.LastUsed, _ = time.Parse(time.RFC3339Nano, lastUsed)
		u.Current = current != 0
		out = append(out, u)
	}
	return out, rows.Err()
}
