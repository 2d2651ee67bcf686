// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/ledger"
	"github.com/danielhkuo/quickly-elect/notify"
	"github.com/danielhkuo/quickly-elect/store"
)

// TestAdmin is the administrator address used by GetTestConfig
const TestAdmin = "0xadmin"

// SetupTestDB opens a private in-memory SQLite database with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(cliparse.DatabaseSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseType:  cliparse.DatabaseSQLite,
		DatabaseURL:   ":memory:",
		AdminAddress:  TestAdmin,
		CallerKeySalt: "test-caller-salt",
		AMQPExchange:  "election.events",
		LogLevel:      "info",
	}
}

// SetupTestLedger opens a ledger journaled to a fresh in-memory SQLite
// database, with a running broker. The database is returned so tests can
// inspect the journal. Everything is shut down when the test ends.
func SetupTestLedger(t *testing.T, cfg cliparse.Config) (*ledger.Ledger, *notify.Broker, *sql.DB) {
	t.Helper()

	conn := SetupTestDB(t)
	journal, err := store.NewSQLJournal(conn)
	if err != nil {
		t.Fatalf("Failed to create journal: %v", err)
	}

	broker := notify.NewBroker(nil)
	l, err := ledger.Open(context.Background(), cfg.AdminAddress, journal, broker)
	if err != nil {
		broker.Shutdown()
		t.Fatalf("Failed to open ledger: %v", err)
	}

	t.Cleanup(func() {
		broker.Shutdown()
		l.Close()
	})
	return l, broker, conn
}

// CallerHeaders returns the identity headers for address
func CallerHeaders(cfg cliparse.Config, address string) map[string]string {
	return map[string]string{
		auth.HeaderCallerAddress: address,
		auth.HeaderCallerKey:     auth.GenerateCallerKey(address, cfg.CallerKeySalt),
	}
}

// RegisterTestVoters registers each address through the ledger
func RegisterTestVoters(t *testing.T, l *ledger.Ledger, addresses ...string) {
	t.Helper()
	admin := l.Election().Admin()
	for _, addr := range addresses {
		if _, err := l.RegisterVoter(context.Background(), admin, addr); err != nil {
			t.Fatalf("Failed to register voter %s: %v", addr, err)
		}
	}
}

// AdvanceTo moves the election forward until it reaches target
func AdvanceTo(t *testing.T, l *ledger.Ledger, target election.Phase) {
	t.Helper()
	ctx := context.Background()
	admin := l.Election().Admin()

	steps := map[election.Phase]func(context.Context, string) (election.Result, error){
		election.RegisteringVoters:            l.StartProposalRegistration,
		election.ProposalsRegistrationStarted: l.EndProposalRegistration,
		election.ProposalsRegistrationEnded:   l.StartVotingSession,
		election.VotingSessionStarted:         l.EndVotingSession,
		election.VotingSessionEnded:           l.TallyVotes,
	}

	for l.Election().Phase() != target {
		step, ok := steps[l.Election().Phase()]
		if !ok {
			t.Fatalf("Cannot advance from %s to %s", l.Election().Phase(), target)
		}
		if _, err := step(ctx, admin); err != nil {
			t.Fatalf("Failed to advance from %s: %v", l.Election().Phase(), err)
		}
	}
}

// SubmitTestProposal submits a proposal on behalf of voter and returns its id
func SubmitTestProposal(t *testing.T, l *ledger.Ledger, voter, description string) int {
	t.Helper()
	id, err := l.SubmitProposal(context.Background(), voter, description)
	if err != nil {
		t.Fatalf("Failed to submit proposal %q: %v", description, err)
	}
	return id
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
