// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists the election's command journal.

Every command the election accepts is appended as an Entry with a gapless
sequence number. Replaying the entries in order against a fresh election
rebuilds the state exactly, so the journal is the only thing written to disk.

Backends:

  - SQLJournal: postgres (lib/pq) or sqlite (modernc.org/sqlite) through package db
  - BoltJournal: a single bbolt file
  - MemoryJournal: process memory, for tests and throwaway runs

The journal also records which administrator created it. Bind refuses to
reopen it under a different one.
*/
package store
