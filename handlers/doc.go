// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the election API.

# Handler Types

Each handler is a struct holding the ledger and config:

  - ElectionHandler: administrator operations (voters, phase changes, tally, reset)
  - VotingHandler: proposal submission and voting
  - ResultsHandler: read-only queries
  - EventsHandler: event history and the Server-Sent Events stream

	electionHandler := handlers.NewElectionHandler(l, cfg)

# Caller Identity

Mutating requests carry X-Caller-Address and X-Caller-Key. The key is the
HMAC of the address under the configured salt; registering a voter returns
theirs. The admin's key is logged at startup. Missing or bad keys get 401.

# Workflow

	RegisteringVoters
	  POST /election/voters            → RegisterVoter (admin)
	  POST /election/proposals/start   → StartProposalRegistration (admin)
	ProposalsRegistrationStarted
	  POST /election/proposals         → SubmitProposal (voter)
	  POST /election/proposals/end     → EndProposalRegistration (admin)
	ProposalsRegistrationEnded
	  POST /election/voting/start      → StartVotingSession (admin)
	VotingSessionStarted
	  POST /election/votes             → Vote (voter, once)
	  POST /election/voting/end        → EndVotingSession (admin)
	VotingSessionEnded
	  POST /election/tally             → TallyVotes (admin)
	VotesTallied
	  GET  /election/winner            → GetWinner

POST /election/reset is accepted from any phase.

# Errors

Election errors map to statuses in errors.go: not admin or not registered
is 403, wrong phase and duplicates are 409, bad proposal ids are 400, and
journal failures are 500. Every error body carries a stable code.
*/
package handlers
