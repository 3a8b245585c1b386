// Package store persists editor snapshots (full text, sentences, themes) in
// SQLite under fixed string keys.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// OpenDB opens a SQLite database at the given path.
// If path is ":memory:", uses an in-memory database.
// Sets WAL mode and enables foreign keys.
// Runs migrations automatically.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Migrate runs all schema migrations. Statements are idempotent so the full
// list re-runs on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		key        TEXT PRIMARY KEY,
		full_text  TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS sentences (
		snapshot_key TEXT NOT NULL REFERENCES snapshots(key) ON DELETE CASCADE,
		position     INTEGER NOT NULL,
		id           TEXT NOT NULL,
		text         TEXT NOT NULL,
		start_index  INTEGER NOT NULL,
		end_index    INTEGER NOT NULL,
		PRIMARY KEY (snapshot_key, position)
	)`,

	`CREATE TABLE IF NOT EXISTS themes (
		snapshot_key TEXT NOT NULL REFERENCES snapshots(key) ON DELETE CASCADE,
		position     INTEGER NOT NULL,
		id           TEXT NOT NULL,
		label        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		color        TEXT NOT NULL DEFAULT '',
		confidence   REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (snapshot_key, position)
	)`,

	`CREATE TABLE IF NOT EXISTS theme_chunks (
		snapshot_key TEXT NOT NULL REFERENCES snapshots(key) ON DELETE CASCADE,
		theme_id     TEXT NOT NULL,
		position     INTEGER NOT NULL,
		id           TEXT NOT NULL,
		text         TEXT NOT NULL,
		sentence_id  TEXT NOT NULL,
		correlation  REAL,
		PRIMARY KEY (snapshot_key, theme_id, position)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_theme_chunks_theme ON theme_chunks(snapshot_key, theme_id)`,
}
