// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

// TestConcurrentVotes verifies that simultaneous votes from different voters
// are all counted exactly once
func TestConcurrentVotes(t *testing.T) {
	cfg := testutil.GetTestConfig()
	l, _, conn := testutil.SetupTestLedger(t, cfg)
	votingHandler := NewVotingHandler(l, cfg)

	numVoters := 20
	voters := make([]string, numVoters)
	for i := range voters {
		voters[i] = fmt.Sprintf("0xvoter%02d", i)
	}
	testutil.RegisterTestVoters(t, l, voters...)
	testutil.AdvanceTo(t, l, election.ProposalsRegistrationStarted)
	for _, desc := range []string{"Option A", "Option B", "Option C"} {
		testutil.SubmitTestProposal(t, l, voters[0], desc)
	}
	testutil.AdvanceTo(t, l, election.VotingSessionStarted)

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i, voter := range voters {
		wg.Add(1)
		go func(idx int, voter string) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/election/votes",
				models.VoteRequest{ProposalID: intPtr(idx % 3)}, testutil.CallerHeaders(cfg, voter))
			w := httptest.NewRecorder()

			votingHandler.Vote(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i, voter)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	sum := 0
	for _, p := range l.Election().Proposals() {
		sum += p.VoteCount
	}
	if sum != numVoters || l.Election().TotalVotes() != numVoters {
		t.Errorf("Expected %d votes counted, got sum=%d total=%d", numVoters, sum, l.Election().TotalVotes())
	}

	var journaledVotes int
	err := conn.QueryRow("SELECT COUNT(*) FROM election_journal WHERE op = $1", string(election.OpVote)).Scan(&journaledVotes)
	if err != nil {
		t.Fatalf("Failed to count journaled votes: %v", err)
	}
	if journaledVotes != numVoters {
		t.Errorf("Expected %d journaled votes, got %d", numVoters, journaledVotes)
	}
}

// TestConcurrentDuplicateVotes verifies that a voter racing against itself
// only gets one vote in
func TestConcurrentDuplicateVotes(t *testing.T) {
	cfg := testutil.GetTestConfig()
	l, _, _ := testutil.SetupTestLedger(t, cfg)
	votingHandler := NewVotingHandler(l, cfg)

	testutil.RegisterTestVoters(t, l, "0xalice")
	testutil.AdvanceTo(t, l, election.ProposalsRegistrationStarted)
	testutil.SubmitTestProposal(t, l, "0xalice", "Pizza")
	testutil.AdvanceTo(t, l, election.VotingSessionStarted)

	numAttempts := 10
	var created, conflicted atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/election/votes",
				models.VoteRequest{ProposalID: intPtr(0)}, testutil.CallerHeaders(cfg, "0xalice"))
			w := httptest.NewRecorder()
			votingHandler.Vote(w, req)

			switch w.Code {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				conflicted.Add(1)
			}
		}()
	}

	wg.Wait()

	if created.Load() != 1 || conflicted.Load() != int32(numAttempts-1) {
		t.Errorf("Expected 1 created and %d conflicts, got %d and %d", numAttempts-1, created.Load(), conflicted.Load())
	}
	if p, _ := l.Election().Proposal(0); p.VoteCount != 1 {
		t.Errorf("Expected 1 vote on proposal 0, got %d", p.VoteCount)
	}
}

// TestConcurrentReadsDuringWrites exercises queries while votes are being cast
func TestConcurrentReadsDuringWrites(t *testing.T) {
	cfg := testutil.GetTestConfig()
	l, _, _ := testutil.SetupTestLedger(t, cfg)
	votingHandler := NewVotingHandler(l, cfg)
	resultsHandler := NewResultsHandler(l, cfg)

	voters := []string{"0xa", "0xb", "0xc", "0xd", "0xe"}
	testutil.RegisterTestVoters(t, l, voters...)
	testutil.AdvanceTo(t, l, election.ProposalsRegistrationStarted)
	testutil.SubmitTestProposal(t, l, "0xa", "Pizza")
	testutil.AdvanceTo(t, l, election.VotingSessionStarted)

	var wg sync.WaitGroup
	var badReads atomic.Int32

	for _, voter := range voters {
		wg.Add(2)
		go func(voter string) {
			defer wg.Done()
			req := testutil.MakeRequest("POST", "/election/votes",
				models.VoteRequest{ProposalID: intPtr(0)}, testutil.CallerHeaders(cfg, voter))
			votingHandler.Vote(httptest.NewRecorder(), req)
		}(voter)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			resultsHandler.GetStatus(w, testutil.MakeRequest("GET", "/election", nil, nil))

			var resp models.StatusResponse
			err := json.NewDecoder(w.Body).Decode(&resp)
			if err != nil || len(resp.Proposals) != 1 || resp.Proposals[0].VoteCount != resp.TotalVotes {
				badReads.Add(1)
			}
		}()
	}

	wg.Wait()

	if badReads.Load() != 0 {
		t.Errorf("Saw %d inconsistent snapshots", badReads.Load())
	}
}

// TestWinnerReadsDuringResets runs tally/reset cycles while the winner is read.
// A read that races a reset must see either the tallied winner or a phase
// conflict, never a winner that no longer exists.
func TestWinnerReadsDuringResets(t *testing.T) {
	cfg := testutil.GetTestConfig()
	l, _, _ := testutil.SetupTestLedger(t, cfg)
	handler := NewResultsHandler(l, cfg)
	ctx := context.Background()
	admin := l.Election().Admin()

	var writeErrs atomic.Int32
	stop := make(chan struct{})
	go func() {
		defer close(stop)
		for i := 0; i < 300; i++ {
			voter := fmt.Sprintf("0xvoter%d", i)
			steps := []func() error{
				func() error { _, err := l.RegisterVoter(ctx, admin, voter); return err },
				func() error { _, err := l.StartProposalRegistration(ctx, admin); return err },
				func() error { _, err := l.SubmitProposal(ctx, voter, "Proposal A"); return err },
				func() error { _, err := l.SubmitProposal(ctx, voter, "Proposal B"); return err },
				func() error { _, err := l.EndProposalRegistration(ctx, admin); return err },
				func() error { _, err := l.StartVotingSession(ctx, admin); return err },
				func() error { return l.Vote(ctx, voter, 1) },
				func() error { _, err := l.EndVotingSession(ctx, admin); return err },
				func() error { _, err := l.TallyVotes(ctx, admin); return err },
				func() error { _, err := l.ResetVoting(ctx, admin); return err },
			}
			for _, step := range steps {
				if err := step(); err != nil {
					writeErrs.Add(1)
				}
			}
		}
	}()

	reads, wins := 0, 0
	for done := false; !done; {
		select {
		case <-stop:
			done = true
		default:
		}

		w := httptest.NewRecorder()
		handler.GetWinner(w, testutil.MakeRequest("GET", "/election/winner", nil, nil))
		reads++

		switch w.Code {
		case http.StatusConflict:
		case http.StatusOK:
			wins++
			var resp models.WinnerResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode winner: %v", err)
			}
			if resp.WinningProposalID != 1 || resp.Proposal.ID != 1 || resp.Proposal.Description != "Proposal B" {
				t.Fatalf("Inconsistent winner: %+v", resp)
			}
		default:
			t.Fatalf("Winner read returned %d: %s", w.Code, w.Body.String())
		}
	}

	if writeErrs.Load() != 0 {
		t.Errorf("Saw %d failed election commands", writeErrs.Load())
	}
	t.Logf("%d winner reads, %d during a tallied phase", reads, wins)
}
