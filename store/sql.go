// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/danielhkuo/quickly-elect/db"
)

// SQLJournal stores entries in the election_journal table. It works with any
// driver registered by package db.
type SQLJournal struct {
	db *sql.DB
}

// NewSQLJournal creates the schema if needed and takes ownership of conn.
func NewSQLJournal(conn *sql.DB) (*SQLJournal, error) {
	if err := db.CreateSchema(conn); err != nil {
		return nil, err
	}
	return &SQLJournal{db: conn}, nil
}

func (j *SQLJournal) Bind(ctx context.Context, admin string) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var stored string
	err = tx.QueryRowContext(ctx, `
		SELECT value FROM election_meta WHERE name = $1
	`, "admin").Scan(&stored)

	if err == sql.ErrNoRows {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO election_meta (name, value) VALUES ($1, $2)
		`, "admin", admin)
		if err != nil {
			return fmt.Errorf("failed to record admin: %w", err)
		}
		return tx.Commit()
	}
	if err != nil {
		return fmt.Errorf("failed to query admin: %w", err)
	}
	return checkAdmin(stored, admin)
}

func (j *SQLJournal) Append(ctx context.Context, e Entry) error {
	payload, err := json.Marshal(e.Command)
	if err != nil {
		return fmt.Errorf("failed to encode command: %w", err)
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var last int64
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM election_journal`).Scan(&last)
	if err != nil {
		return fmt.Errorf("failed to query last sequence: %w", err)
	}
	if err := checkSeq(uint64(last), e); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO election_journal (seq, op, caller, command, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`, int64(e.Seq), string(e.Command.Op), e.Command.Caller, string(payload), e.RecordedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert journal entry %d: %w", e.Seq, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit journal entry %d: %w", e.Seq, err)
	}
	return nil
}

func (j *SQLJournal) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, command, recorded_at
		FROM election_journal
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			seq     int64
			payload string
			e       Entry
		)
		if err := rows.Scan(&seq, &payload, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &e.Command); err != nil {
			return nil, fmt.Errorf("failed to decode journal entry %d: %w", seq, err)
		}
		e.Seq = uint64(seq)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (j *SQLJournal) Close() error {
	return j.db.Close()
}
