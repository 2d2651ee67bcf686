// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens SQL connections and creates the journal schema.

# Connections

Open selects the driver from the configured database type:

	conn, err := db.Open("postgres", "postgres://...")   // lib/pq
	conn, err := db.Open("sqlite", "file:election.db")   // modernc.org/sqlite

SQLite connections are limited to one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - election_meta: name/value pairs, currently the bound administrator
  - election_journal: one row per accepted command (seq, op, caller, JSON command)

The election state itself is never stored; it is rebuilt by replaying
election_journal in seq order.
*/
package db
