// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "github.com/danielhkuo/quickly-elect/election"

// Error codes returned in ErrorResponse.Code
const (
	CodeInvalidRequest    = "invalid_request"
	CodeUnauthenticated   = "unauthenticated"
	CodeUnauthorized      = "unauthorized"
	CodeNotRegistered     = "not_registered"
	CodeWrongPhase        = "wrong_phase"
	CodeAlreadyRegistered = "already_registered"
	CodeAlreadyVoted      = "already_voted"
	CodeInvalidProposal   = "invalid_proposal"
	CodeNoProposals       = "no_proposals"
	CodeNotFound          = "not_found"
	CodeInternal          = "internal"
)

// Request types

type RegisterVoterRequest struct {
	Address string `json:"address"`
}

type SubmitProposalRequest struct {
	Description string `json:"description"`
}

// ProposalID is a pointer so a missing field is distinguishable from 0.
type VoteRequest struct {
	ProposalID *int `json:"proposal_id"`
}

// Response types

type RegisterVoterResponse struct {
	Address   string `json:"address"`
	CallerKey string `json:"caller_key"`
}

type SubmitProposalResponse struct {
	ProposalID int `json:"proposal_id"`
}

type VoteResponse struct {
	ProposalID int    `json:"proposal_id"`
	Message    string `json:"message"`
}

type PhaseChangeResponse struct {
	PreviousPhase     election.Phase `json:"previous_phase"`
	Phase             election.Phase `json:"phase"`
	WinningProposalID *int           `json:"winning_proposal_id,omitempty"`
}

type WinnerResponse struct {
	WinningProposalID int               `json:"winning_proposal_id"`
	Proposal          election.Proposal `json:"proposal"`
}

type TotalVotesResponse struct {
	TotalVotes int `json:"total_votes"`
}

type ProposalsResponse struct {
	Proposals []election.Proposal `json:"proposals"`
}

type VotersResponse struct {
	Voters []string `json:"voters"`
}

type VoterResponse struct {
	Address         string `json:"address"`
	IsRegistered    bool   `json:"is_registered"`
	HasVoted        bool   `json:"has_voted"`
	VotedProposalID *int   `json:"voted_proposal_id,omitempty"`
}

type AdminCheckResponse struct {
	Address string `json:"address"`
	IsAdmin bool   `json:"is_admin"`
}

type RegisteredCheckResponse struct {
	Address      string `json:"address"`
	IsRegistered bool   `json:"is_registered"`
}

type StatusResponse struct {
	Admin             string              `json:"admin"`
	Phase             election.Phase      `json:"phase"`
	VoterCount        int                 `json:"voter_count"`
	Proposals         []election.Proposal `json:"proposals"`
	TotalVotes        int                 `json:"total_votes"`
	WinningProposalID *int                `json:"winning_proposal_id,omitempty"`
	LastEventSeq      uint64              `json:"last_event_seq"`
}

type EventsResponse struct {
	Events []election.Event `json:"events"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
