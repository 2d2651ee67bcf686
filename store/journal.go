// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/election"
)

var (
	ErrAdminMismatch    = errors.New("journal belongs to a different administrator")
	ErrSequenceConflict = errors.New("journal entry out of sequence")
)

// Entry is one accepted command. Seq starts at 1 and has no gaps.
type Entry struct {
	Seq        uint64           `json:"seq"`
	Command    election.Command `json:"command"`
	RecordedAt time.Time        `json:"recorded_at"`
}

// Journal is an append-only log of accepted election commands.
type Journal interface {
	// Bind records admin as the journal's administrator on first use and
	// fails with ErrAdminMismatch if a different one was recorded before.
	Bind(ctx context.Context, admin string) error
	// Append stores e. e.Seq must be one past the last stored entry.
	Append(ctx context.Context, e Entry) error
	// Entries returns every entry in Seq order.
	Entries(ctx context.Context) ([]Entry, error)
	Close() error
}

// Open creates the journal backend selected by cfg.DatabaseType.
func Open(cfg cliparse.Config) (Journal, error) {
	switch cfg.DatabaseType {
	case cliparse.DatabaseMemory:
		return NewMemoryJournal(), nil
	case cliparse.DatabaseBolt:
		return NewBoltJournal(cfg.DatabaseURL)
	case cliparse.DatabaseSQLite, cliparse.DatabasePostgres:
		conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		j, err := NewSQLJournal(conn)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return j, nil
	}
	return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
}

func checkSeq(last uint64, e Entry) error {
	if e.Seq != last+1 {
		return fmt.Errorf("%w: got %d, want %d", ErrSequenceConflict, e.Seq, last+1)
	}
	return nil
}

func checkAdmin(stored, admin string) error {
	if stored != admin {
		return fmt.Errorf("%w: bound to %s, configured %s", ErrAdminMismatch, stored, admin)
	}
	return nil
}
