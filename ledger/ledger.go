// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/notify"
	"github.com/danielhkuo/quickly-elect/store"
)

// HistoryLimit is the number of recent events kept for History.
const HistoryLimit = 512

// Ledger serializes every mutating command through the journal before it
// reaches the election. Queries go straight to the election.
type Ledger struct {
	mu       sync.Mutex
	election *election.Election
	journal  store.Journal
	broker   *notify.Broker
	seq      uint64

	// set only while replaying the journal at Open
	replaying bool

	histMu  sync.RWMutex
	history []election.Event

	now func() time.Time
}

// Open binds journal to admin, replays it, and returns a ledger ready to
// accept commands. broker may be nil.
func Open(ctx context.Context, admin string, journal store.Journal, broker *notify.Broker) (*Ledger, error) {
	if err := journal.Bind(ctx, admin); err != nil {
		return nil, err
	}

	l := &Ledger{
		journal: journal,
		broker:  broker,
		now:     func() time.Time { return time.Now().UTC() },
	}

	e, err := election.New(admin, election.WithObserver(l.observe))
	if err != nil {
		return nil, err
	}
	l.election = e

	if err := l.replay(ctx); err != nil {
		return nil, err
	}

	slog.Info("election restored",
		"admin", admin,
		"phase", e.Phase(),
		"journal_entries", l.seq,
	)
	return l, nil
}

func (l *Ledger) replay(ctx context.Context) error {
	entries, err := l.journal.Entries(ctx)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.replaying = true
	defer func() { l.replaying = false }()

	for _, entry := range entries {
		if entry.Seq != l.seq+1 {
			return fmt.Errorf("journal gap: entry %d follows %d", entry.Seq, l.seq)
		}
		if _, err := l.election.Apply(entry.Command); err != nil {
			return fmt.Errorf("failed to replay journal entry %d (%s): %w", entry.Seq, entry.Command.Op, err)
		}
		l.seq = entry.Seq
	}
	return nil
}

// observe runs under the election's write lock, which is only ever taken
// while l.mu is held.
func (l *Ledger) observe(ev election.Event) {
	l.histMu.Lock()
	l.history = append(l.history, ev)
	if over := len(l.history) - HistoryLimit; over > 0 {
		l.history = append(l.history[:0:0], l.history[over:]...)
	}
	l.histMu.Unlock()

	if !l.replaying && l.broker != nil {
		l.broker.Publish(ev)
	}
}

// Execute validates cmd, journals it, and applies it. Nothing is journaled
// when validation fails and nothing is applied when journaling fails.
func (l *Ledger) Execute(ctx context.Context, cmd election.Command) (election.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.election.Validate(cmd); err != nil {
		phase := l.election.Phase()
		return election.Result{Previous: phase, Phase: phase}, err
	}

	entry := store.Entry{
		Seq:        l.seq + 1,
		Command:    cmd,
		RecordedAt: l.now(),
	}
	if err := l.journal.Append(ctx, entry); err != nil {
		slog.Error("failed to journal command", "error", err, "op", cmd.Op, "seq", entry.Seq)
		phase := l.election.Phase()
		return election.Result{Previous: phase, Phase: phase}, fmt.Errorf("failed to journal %s: %w", cmd.Op, err)
	}
	l.seq = entry.Seq

	res, err := l.election.Apply(cmd)
	if err != nil {
		// Validate passed under the same lock, so this is a bug in the core.
		slog.Error("journaled command rejected by election", "error", err, "op", cmd.Op, "seq", entry.Seq)
		return res, err
	}
	return res, nil
}

// Election returns the underlying election for queries. Mutating it directly
// bypasses the journal.
func (l *Ledger) Election() *election.Election {
	return l.election
}

// History returns retained events with Seq greater than after, oldest first.
func (l *Ledger) History(after uint64) []election.Event {
	l.histMu.RLock()
	defer l.histMu.RUnlock()

	out := []election.Event{}
	for _, ev := range l.history {
		if ev.Seq > after {
			out = append(out, ev)
		}
	}
	return out
}

// JournalSeq returns the sequence number of the last journaled command.
func (l *Ledger) JournalSeq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}

func (l *Ledger) Close() error {
	return l.journal.Close()
}
