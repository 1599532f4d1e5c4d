package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// note: as per SQLite's manual suggestions, we do not use 'AUTOINCREMENT' on
// the 'INTEGER PRIMARY KEY' columns. The default behaviour of such columns is
// nearly identical anyway, with less overhead.
var schema_stmts = []string{
	`PRAGMA journal_mode=WAL;`,
	`PRAGMA foreign_keys=ON;`,
	`CREATE TABLE IF NOT EXISTS books (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		records INTEGER NOT NULL DEFAULT 0,
		added_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
		UNIQUE(name)
	);`,
	`CREATE TABLE IF NOT EXISTS lookups (
		id INTEGER PRIMARY KEY,
		looked_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
		book_id INTEGER NOT NULL REFERENCES books(id) ON UPDATE CASCADE ON DELETE CASCADE,
		fen TEXT NOT NULL,
		key TEXT NOT NULL,
		matches INTEGER NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value
	);`,
	`CREATE INDEX IF NOT EXISTS idx_lookups_looked_at ON lookups(looked_at);`,
	`CREATE INDEX IF NOT EXISTS idx_lookups_book_id ON lookups(book_id);`,
}

type Store struct {
	db *sqlx.DB
}

func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// keep it predictable; this is a single-instance service.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	for _, stmt := range schema_stmts {
		db.MustExec(stmt)
	}
	insertDefaultSettings(db)

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func insertDefaultSettings(db *sqlx.DB) {
	db.MustExec(`INSERT OR IGNORE INTO settings (key, value) VALUES ('default_book_id', 0)`)
	db.MustExec(`INSERT OR IGNORE INTO settings (key, value) VALUES ('explorer_max_moves', 20)`)
	db.MustExec(`INSERT OR IGNORE INTO settings (key, value) VALUES ('lookup_log_limit', 200)`)
}
