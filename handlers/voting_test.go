// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

func intPtr(i int) *int { return &i }

func TestSubmitProposal(t *testing.T) {
	cfg := testutil.GetTestConfig()
	l, _, _ := testutil.SetupTestLedger(t, cfg)
	handler := NewVotingHandler(l, cfg)

	testutil.RegisterTestVoters(t, l, "0xalice", "0xbob")
	testutil.AdvanceTo(t, l, election.ProposalsRegistrationStarted)

	tests := []struct {
		name           string
		caller         string
		requestBody    interface{}
		expectedStatus int
		expectedCode   string
		expectedID     int
	}{
		{
			name:           "first proposal gets id 0",
			caller:         "0xalice",
			requestBody:    models.SubmitProposalRequest{Description: "Pizza"},
			expectedStatus: http.StatusCreated,
			expectedID:     0,
		},
		{
			name:           "same voter may submit again",
			caller:         "0xalice",
			requestBody:    models.SubmitProposalRequest{Description: "Sushi"},
			expectedStatus: http.StatusCreated,
			expectedID:     1,
		},
		{
			name:           "caller address is case insensitive",
			caller:         "0xBOB",
			requestBody:    models.SubmitProposalRequest{Description: "Tacos"},
			expectedStatus: http.StatusCreated,
			expectedID:     2,
		},
		{
			name:           "empty description",
			caller:         "0xbob",
			requestBody:    models.SubmitProposalRequest{Description: "  "},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   models.CodeInvalidRequest,
		},
		{
			name:           "unregistered caller",
			caller:         "0xmallory",
			requestBody:    models.SubmitProposalRequest{Description: "Nothing"},
			expectedStatus: http.StatusForbidden,
			expectedCode:   models.CodeNotRegistered,
		},
		{
			name:           "admin is not a voter",
			caller:         testutil.TestAdmin,
			requestBody:    models.SubmitProposalRequest{Description: "Admin idea"},
			expectedStatus: http.StatusForbidden,
			expectedCode:   models.CodeNotRegistered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/election/proposals", tt.requestBody, testutil.CallerHeaders(cfg, tt.caller))
			w := httptest.NewRecorder()

			handler.SubmitProposal(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.SubmitProposalResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.ProposalID != tt.expectedID {
					t.Errorf("Expected proposal_id %d, got %d", tt.expectedID, resp.ProposalID)
				}
				return
			}

			var errResp models.ErrorResponse
			testutil.AssertJSON(t, w, &errResp)
			if errResp.Code != tt.expectedCode {
				t.Errorf("Expected code '%s', got '%s'", tt.expectedCode, errResp.Code)
			}
		})
	}

	proposals := l.Election().Proposals()
	if len(proposals) != 3 {
		t.Fatalf("Expected 3 proposals, got %d", len(proposals))
	}
	if proposals[2].Description != "Tacos" {
		t.Errorf("Expected proposal 2 'Tacos', got '%s'", proposals[2].Description)
	}
}

func TestSubmitProposal_WrongPhase(t *testing.T) {
	cfg := testutil.GetTestConfig()
	l, _, _ := testutil.SetupTestLedger(t, cfg)
	handler := NewVotingHandler(l, cfg)

	testutil.RegisterTestVoters(t, l, "0xalice")

	req := testutil.MakeRequest("POST", "/election/proposals",
		models.SubmitProposalRequest{Description: "Too early"}, testutil.CallerHeaders(cfg, "0xalice"))
	w := httptest.NewRecorder()
	handler.SubmitProposal(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestVote(t *testing.T) {
	cfg := testutil.GetTestConfig()
	l, _, _ := testutil.SetupTestLedger(t, cfg)
	handler := NewVotingHandler(l, cfg)

	testutil.RegisterTestVoters(t, l, "0xalice", "0xbob", "0xcarol")
	testutil.AdvanceTo(t, l, election.ProposalsRegistrationStarted)
	testutil.SubmitTestProposal(t, l, "0xalice", "Pizza")
	testutil.SubmitTestProposal(t, l, "0xbob", "Tacos")
	testutil.AdvanceTo(t, l, election.VotingSessionStarted)

	tests := []struct {
		name           string
		caller         string
		requestBody    interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "valid vote",
			caller:         "0xalice",
			requestBody:    models.VoteRequest{ProposalID: intPtr(1)},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "vote for proposal 0",
			caller:         "0xbob",
			requestBody:    models.VoteRequest{ProposalID: intPtr(0)},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "second vote rejected",
			caller:         "0xalice",
			requestBody:    models.VoteRequest{ProposalID: intPtr(0)},
			expectedStatus: http.StatusConflict,
			expectedCode:   models.CodeAlreadyVoted,
		},
		{
			name:           "proposal out of range",
			caller:         "0xcarol",
			requestBody:    models.VoteRequest{ProposalID: intPtr(2)},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   models.CodeInvalidProposal,
		},
		{
			name:           "negative proposal",
			caller:         "0xcarol",
			requestBody:    models.VoteRequest{ProposalID: intPtr(-1)},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   models.CodeInvalidProposal,
		},
		{
			name:           "missing proposal id",
			caller:         "0xcarol",
			requestBody:    map[string]string{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   models.CodeInvalidRequest,
		},
		{
			name:           "unregistered voter",
			caller:         "0xmallory",
			requestBody:    models.VoteRequest{ProposalID: intPtr(0)},
			expectedStatus: http.StatusForbidden,
			expectedCode:   models.CodeNotRegistered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/election/votes", tt.requestBody, testutil.CallerHeaders(cfg, tt.caller))
			w := httptest.NewRecorder()

			handler.Vote(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedCode != "" {
				var errResp models.ErrorResponse
				testutil.AssertJSON(t, w, &errResp)
				if errResp.Code != tt.expectedCode {
					t.Errorf("Expected code '%s', got '%s'", tt.expectedCode, errResp.Code)
				}
			}
		})
	}

	// Rejected votes leave no trace.
	if got := l.Election().TotalVotes(); got != 2 {
		t.Errorf("Expected 2 votes, got %d", got)
	}
	v, _ := l.Election().Voter("0xcarol")
	if v.HasVoted {
		t.Error("carol should not have voted")
	}
	v, _ = l.Election().Voter("0xalice")
	if v.VotedProposalID == nil || *v.VotedProposalID != 1 {
		t.Errorf("Expected alice's vote on proposal 1, got %v", v.VotedProposalID)
	}
}

func TestVote_PhaseCheckedBeforeRegistration(t *testing.T) {
	cfg := testutil.GetTestConfig()
	l, _, _ := testutil.SetupTestLedger(t, cfg)
	handler := NewVotingHandler(l, cfg)

	req := testutil.MakeRequest("POST", "/election/votes",
		models.VoteRequest{ProposalID: intPtr(0)}, testutil.CallerHeaders(cfg, "0xmallory"))
	w := httptest.NewRecorder()
	handler.Vote(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)

	var errResp models.ErrorResponse
	testutil.AssertJSON(t, w, &errResp)
	if errResp.Code != models.CodeWrongPhase {
		t.Errorf("Expected code 'wrong_phase', got '%s'", errResp.Code)
	}
}
