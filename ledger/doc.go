// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger is the single writer in front of the election.

Each mutating command is validated, appended to the store.Journal, and only
then applied, all under one lock. On Open the journal is replayed into a
fresh election so the process picks up exactly where it stopped. Events
produced during replay go to the history but are not published.

The ledger keeps the most recent HistoryLimit events so late subscribers can
catch up by sequence number.
*/
package ledger
