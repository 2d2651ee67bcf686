// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the HTTP API.

Election state types (Phase, Proposal, Voter, Event) live in package election
and are embedded here as-is. Phases are encoded by name, e.g.
"VotingSessionStarted".

# Request Types

  - RegisterVoterRequest: address
  - SubmitProposalRequest: description
  - VoteRequest: proposal_id

# Response Types

  - RegisterVoterResponse: address, caller_key
  - SubmitProposalResponse: proposal_id
  - VoteResponse: proposal_id, message
  - PhaseChangeResponse: previous_phase, phase, winning_proposal_id
  - StatusResponse, WinnerResponse, TotalVotesResponse, ProposalsResponse,
    VotersResponse, VoterResponse, AdminCheckResponse,
    RegisteredCheckResponse, EventsResponse
  - ErrorResponse: error, message, code

# Error Codes

ErrorResponse.Code is a stable machine name: invalid_request,
unauthenticated, unauthorized, not_registered, wrong_phase,
already_registered, already_voted, invalid_proposal, no_proposals,
not_found, internal.
*/
package models
