// Package db provides database schema migration management.
package db

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// migration is one versioned schema step. Statements are embedded in code
// rather than read from disk: the store ships inside a library and must
// not depend on a migrations directory existing at the install site.
type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "collection-point cache",
		SQL: `
		CREATE TABLE IF NOT EXISTS point_cache (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			latitude REAL,
			longitude REAL,
			phone TEXT NOT NULL DEFAULT '',
			website TEXT NOT NULL DEFAULT '',
			materials TEXT NOT NULL DEFAULT '',
			display_order INTEGER NOT NULL DEFAULT 0,
			cached_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_point_cache_order ON point_cache(display_order);
		`,
	},
	{
		Version:     2,
		Description: "offline operation queue",
		SQL: `
		CREATE TABLE IF NOT EXISTS operation_queue (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			operation TEXT NOT NULL CHECK(operation IN ('create','update','delete','reorder')),
			payload TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		`,
	},
	{
		Version:     3,
		Description: "preferences singleton",
		SQL: `
		CREATE TABLE IF NOT EXISTS preferences (
			id INTEGER PRIMARY KEY CHECK(id = 1),
			last_latitude REAL,
			last_longitude REAL,
			material_filter TEXT NOT NULL DEFAULT '',
			updated_at INTEGER NOT NULL
		);
		`,
	},
}

// Migrator applies embedded schema migrations in version order.
type Migrator struct {
	db *sql.DB
}

// NewMigrator creates a new Migrator instance.
func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

// Initialize creates the schema_migrations table if it doesn't exist.
func (m *Migrator) Initialize() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY CHECK(version > 0),
		applied_at INTEGER NOT NULL,
		description TEXT NOT NULL CHECK(length(description) > 0),
		checksum TEXT NOT NULL CHECK(length(checksum) = 64)
	);`
	_, err := m.db.Exec(query)
	return err
}

// CurrentVersion returns the current schema version.
func (m *Migrator) CurrentVersion() (int, error) {
	var version int
	err := m.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	return version, err
}

// Up applies all pending migrations. Each migration runs in its own
// transaction together with its schema_migrations bookkeeping row, so a
// crash mid-migration leaves the schema at a recorded version.
func (m *Migrator) Up() error {
	current, err := m.CurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, mig := range migrations {
		if mig.Version <= current {
			continue
		}

		tx, err := m.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", mig.Version, err)
		}

		if _, err := tx.Exec(mig.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", mig.Version, mig.Description, err)
		}

		sum := sha256.Sum256([]byte(mig.SQL))
		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, applied_at, description, checksum) VALUES (?, strftime('%s','now'), ?, ?)",
			mig.Version, mig.Description, hex.EncodeToString(sum[:]),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", mig.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", mig.Version, err)
		}
	}

	return nil
}
