// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/ledger"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

// ElectionHandler serves the administrator's operations.
type ElectionHandler struct {
	ledger *ledger.Ledger
	cfg    cliparse.Config
}

func NewElectionHandler(l *ledger.Ledger, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{ledger: l, cfg: cfg}
}

// RegisterVoter handles POST /election/voters
// The response carries the caller key the voter must present from now on.
func (h *ElectionHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	admin, ok := caller(w, r, h.cfg.CallerKeySalt)
	if !ok {
		return
	}

	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	address := auth.NormalizeAddress(req.Address)
	if address == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "address is required")
		return
	}

	if _, err := h.ledger.RegisterVoter(r.Context(), admin, address); err != nil {
		electionError(w, err)
		return
	}

	slog.Info("voter registered", "voter", address)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{
		Address:   address,
		CallerKey: auth.GenerateCallerKey(address, h.cfg.CallerKeySalt),
	})
}

// POST /election/proposals/start
func (h *ElectionHandler) StartProposalRegistration(w http.ResponseWriter, r *http.Request) {
	h.changePhase(w, r, h.ledger.StartProposalRegistration)
}

// POST /election/proposals/end
func (h *ElectionHandler) EndProposalRegistration(w http.ResponseWriter, r *http.Request) {
	h.changePhase(w, r, h.ledger.EndProposalRegistration)
}

// POST /election/voting/start
func (h *ElectionHandler) StartVotingSession(w http.ResponseWriter, r *http.Request) {
	h.changePhase(w, r, h.ledger.StartVotingSession)
}

// POST /election/voting/end
func (h *ElectionHandler) EndVotingSession(w http.ResponseWriter, r *http.Request) {
	h.changePhase(w, r, h.ledger.EndVotingSession)
}

// TallyVotes handles POST /election/tally
// The winner is included in the response unless no proposals were submitted.
func (h *ElectionHandler) TallyVotes(w http.ResponseWriter, r *http.Request) {
	h.changePhase(w, r, h.ledger.TallyVotes)
}

// ResetVoting handles POST /election/reset
// Allowed from every phase. Voters and proposals are discarded.
func (h *ElectionHandler) ResetVoting(w http.ResponseWriter, r *http.Request) {
	h.changePhase(w, r, h.ledger.ResetVoting)
}

type phaseOp func(ctx context.Context, caller string) (election.Result, error)

func (h *ElectionHandler) changePhase(w http.ResponseWriter, r *http.Request, op phaseOp) {
	admin, ok := caller(w, r, h.cfg.CallerKeySalt)
	if !ok {
		return
	}

	res, err := op(r.Context(), admin)
	if err != nil {
		electionError(w, err)
		return
	}

	slog.Info("phase changed", "from", res.Previous, "to", res.Phase)

	middleware.JSONResponse(w, http.StatusOK, models.PhaseChangeResponse{
		PreviousPhase:     res.Previous,
		Phase:             res.Phase,
		WinningProposalID: res.WinningProposalID,
	})
}
