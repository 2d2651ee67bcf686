// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/ledger"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

// ResultsHandler serves read-only queries. None of them require a caller.
type ResultsHandler struct {
	ledger *ledger.Ledger
	cfg    cliparse.Config
}

func NewResultsHandler(l *ledger.Ledger, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{ledger: l, cfg: cfg}
}

// GetStatus handles GET /election
func (h *ResultsHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	snap := h.ledger.Election().Snapshot()

	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{
		Admin:             snap.Admin,
		Phase:             snap.Phase,
		VoterCount:        len(snap.VoterAddresses),
		Proposals:         snap.Proposals,
		TotalVotes:        snap.TotalVotes,
		WinningProposalID: snap.WinningProposalID,
		LastEventSeq:      snap.LastEventSeq,
	})
}

// GetWinner handles GET /election/winner
// Only available once votes are tallied.
func (h *ResultsHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	proposal, err := h.ledger.Election().WinningProposal()
	if err != nil {
		electionError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.WinnerResponse{
		WinningProposalID: proposal.ID,
		Proposal:          proposal,
	})
}

// GET /election/votes/total
func (h *ResultsHandler) GetTotalVotes(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.TotalVotesResponse{
		TotalVotes: h.ledger.Election().TotalVotes(),
	})
}

// GET /election/proposals
func (h *ResultsHandler) GetProposals(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.ProposalsResponse{
		Proposals: h.ledger.Election().Proposals(),
	})
}

// GetProposal handles GET /election/proposals/{id}
func (h *ResultsHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidProposal, "proposal id must be an integer")
		return
	}

	proposal, err := h.ledger.Election().Proposal(id)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Proposal not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, proposal)
}

// GET /election/voters
func (h *ResultsHandler) GetVoters(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.VotersResponse{
		Voters: h.ledger.Election().VoterAddresses(),
	})
}

// GetVoter handles GET /election/voters/{address}
func (h *ResultsHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	address := auth.NormalizeAddress(r.PathValue("address"))

	v, ok := h.ledger.Election().Voter(address)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoterResponse{
		Address:         address,
		IsRegistered:    v.IsRegistered,
		HasVoted:        v.HasVoted,
		VotedProposalID: v.VotedProposalID,
	})
}

// GET /election/admin/{address}
func (h *ResultsHandler) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	address := auth.NormalizeAddress(r.PathValue("address"))
	middleware.JSONResponse(w, http.StatusOK, models.AdminCheckResponse{
		Address: address,
		IsAdmin: h.ledger.Election().IsAdmin(address),
	})
}

// GET /election/registered/{address}
func (h *ResultsHandler) CheckRegistered(w http.ResponseWriter, r *http.Request) {
	address := auth.NormalizeAddress(r.PathValue("address"))
	middleware.JSONResponse(w, http.StatusOK, models.RegisteredCheckResponse{
		Address:      address,
		IsRegistered: h.ledger.Election().IsRegisteredVoter(address),
	})
}
