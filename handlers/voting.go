// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/ledger"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

// VotingHandler serves the operations open to registered voters.
type VotingHandler struct {
	ledger *ledger.Ledger
	cfg    cliparse.Config
}

func NewVotingHandler(l *ledger.Ledger, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{ledger: l, cfg: cfg}
}

// SubmitProposal handles POST /election/proposals
func (h *VotingHandler) SubmitProposal(w http.ResponseWriter, r *http.Request) {
	voter, ok := caller(w, r, h.cfg.CallerKeySalt)
	if !ok {
		return
	}

	var req models.SubmitProposalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "description is required")
		return
	}

	id, err := h.ledger.SubmitProposal(r.Context(), voter, description)
	if err != nil {
		electionError(w, err)
		return
	}

	slog.Info("proposal registered", "proposal_id", id, "voter", voter)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitProposalResponse{
		ProposalID: id,
	})
}

// Vote handles POST /election/votes
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	voter, ok := caller(w, r, h.cfg.CallerKeySalt)
	if !ok {
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ProposalID == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "proposal_id is required")
		return
	}

	if err := h.ledger.Vote(r.Context(), voter, *req.ProposalID); err != nil {
		electionError(w, err)
		return
	}

	slog.Info("vote recorded", "voter", voter, "proposal_id", *req.ProposalID)

	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{
		ProposalID: *req.ProposalID,
		Message:    "Vote recorded",
	})
}
