// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

// electionError writes the HTTP error for a failed election command or query.
func electionError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		slog.Error("election command failed", "error", err)
		middleware.CodedErrorResponse(w, status, code, "Failed to record command")
		return
	}
	middleware.CodedErrorResponse(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrMissingCaller), errors.Is(err, auth.ErrInvalidCallerKey):
		return http.StatusUnauthorized, models.CodeUnauthenticated
	case errors.Is(err, election.ErrUnauthorized):
		return http.StatusForbidden, models.CodeUnauthorized
	case errors.Is(err, election.ErrNotRegistered):
		return http.StatusForbidden, models.CodeNotRegistered
	case errors.Is(err, election.ErrWrongPhase):
		return http.StatusConflict, models.CodeWrongPhase
	case errors.Is(err, election.ErrAlreadyRegistered):
		return http.StatusConflict, models.CodeAlreadyRegistered
	case errors.Is(err, election.ErrAlreadyVoted):
		return http.StatusConflict, models.CodeAlreadyVoted
	case errors.Is(err, election.ErrNoProposals):
		return http.StatusConflict, models.CodeNoProposals
	case errors.Is(err, election.ErrInvalidProposal):
		return http.StatusBadRequest, models.CodeInvalidProposal
	case errors.Is(err, election.ErrEmptyIdentity),
		errors.Is(err, election.ErrEmptyDescription),
		errors.Is(err, election.ErrUnknownOp):
		return http.StatusBadRequest, models.CodeInvalidRequest
	}
	return http.StatusInternalServerError, models.CodeInternal
}

// caller authenticates the request, writing a 401 on failure.
func caller(w http.ResponseWriter, r *http.Request, salt string) (string, bool) {
	addr, err := auth.CallerFromRequest(r, salt)
	if err != nil {
		electionError(w, err)
		return "", false
	}
	return addr, true
}
