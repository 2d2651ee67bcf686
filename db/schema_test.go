// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"testing"
	"time"
)

func TestCreateSchemaIsIdempotent(t *testing.T) {
	conn, err := Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn); err != nil {
			t.Fatalf("CreateSchema() call %d error = %v", i+1, err)
		}
	}

	_, err = conn.Exec(`
		INSERT INTO election_journal (seq, op, caller, command, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`, 1, "registerVoter", "0xadmin", `{"op":"registerVoter"}`, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to insert journal row: %v", err)
	}

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM election_journal").Scan(&count); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 row, got %d", count)
	}
}

func TestOpenUnsupportedType(t *testing.T) {
	if _, err := Open("mongo", "mongodb://localhost"); err == nil {
		t.Error("Expected error for unsupported database type")
	}
}
