// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var (
	// Bucket names
	journalBucket = []byte("journal")
	metaBucket    = []byte("meta")

	// Metadata keys
	adminKey = []byte("admin")
)

// BoltJournal stores entries in a bbolt file keyed by big-endian sequence
// number, so cursor order is Seq order.
type BoltJournal struct {
	conn *bbolt.DB
}

// NewBoltJournal opens or creates the journal file at path.
func NewBoltJournal(path string) (*BoltJournal, error) {
	conn, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt db: %w", err)
	}

	err = conn.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(journalBucket); err != nil {
			return fmt.Errorf("failed to create journal bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists(metaBucket); err != nil {
			return fmt.Errorf("failed to create meta bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &BoltJournal{conn: conn}, nil
}

func (b *BoltJournal) Bind(_ context.Context, admin string) error {
	return b.conn.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(metaBucket)
		stored := bucket.Get(adminKey)
		if stored == nil {
			return bucket.Put(adminKey, []byte(admin))
		}
		return checkAdmin(string(stored), admin)
	})
}

func (b *BoltJournal) Append(_ context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode journal entry: %w", err)
	}

	return b.conn.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(journalBucket)

		var last uint64
		if k, _ := bucket.Cursor().Last(); k != nil {
			last = binary.BigEndian.Uint64(k)
		}
		if err := checkSeq(last, e); err != nil {
			return err
		}
		return bucket.Put(seqKey(e.Seq), data)
	})
}

func (b *BoltJournal) Entries(_ context.Context) ([]Entry, error) {
	entries := []Entry{}
	err := b.conn.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(journalBucket).ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("failed to decode journal entry %d: %w", binary.BigEndian.Uint64(k), err)
			}
			entries = append(entries, e)
			return nil
		})
	})
	return entries, err
}

func (b *BoltJournal) Close() error {
	return b.conn.Close()
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
