// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Opening a Connection

Open selects the driver from the configured database type:

	conn, err := db.Open(cfg) // sqlite (modernc.org/sqlite) or postgres (lib/pq)

For sqlite the pool is capped at one connection, which serializes writers.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - poll: question and creation time
  - option: votable choices with live counts, ordered by position
  - voter: fingerprints that already voted, one row per (poll, fingerprint)

# Relationships

	poll 1--* option
	poll 1--* voter

All foreign keys use ON DELETE CASCADE. The voter table's composite primary
key (poll_id, fingerprint) is the uniqueness constraint the vote transaction
relies on to reject double votes under concurrency.
*/
package db
