// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"sync"
)

// MemoryJournal keeps entries in process memory. Nothing survives a restart.
type MemoryJournal struct {
	mu      sync.Mutex
	admin   string
	entries []Entry
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

func (m *MemoryJournal) Bind(_ context.Context, admin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.admin == "" {
		m.admin = admin
		return nil
	}
	return checkAdmin(m.admin, admin)
}

func (m *MemoryJournal) Append(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := checkSeq(uint64(len(m.entries)), e); err != nil {
		return err
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *MemoryJournal) Entries(_ context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry{}, m.entries...), nil
}

func (m *MemoryJournal) Close() error {
	return nil
}
