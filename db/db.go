// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/livepoll/livepoll/cliparse"
)

// Open connects to the configured database and verifies the connection.
func Open(cfg cliparse.Config) (*sql.DB, error) {
	var conn *sql.DB
	var err error

	switch cfg.DatabaseType {
	case "postgres":
		conn, err = sql.Open("postgres", cfg.DatabaseURL)
	case "sqlite":
		conn, err = sql.Open("sqlite", cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.DatabaseType == "sqlite" {
		// A single connection serializes writers, which is how the vote
		// transaction stays race-free on sqlite. Postgres relies on row
		// locks and the voter primary key instead.
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema avoids engine-specific defaults (NOW() and friends) so the same
// DDL runs on both sqlite and postgres; timestamps are set in Go, in UTC.
const schema = `
-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Options. position preserves creation order, which is display-significant.
CREATE TABLE IF NOT EXISTS option (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    position INTEGER NOT NULL,
    vote_count INTEGER NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
    UNIQUE (poll_id, position)
);

CREATE INDEX IF NOT EXISTS idx_option_poll_id ON option(poll_id);

-- Voter fingerprints. The primary key is the one-vote-per-origin rule:
-- a second vote with the same fingerprint fails the INSERT.
CREATE TABLE IF NOT EXISTS voter (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    fingerprint TEXT NOT NULL,
    voted_at TIMESTAMP NOT NULL,
    PRIMARY KEY (poll_id, fingerprint)
);
`
