// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the single-election voting workflow.

# Workflow

An Election moves through six phases, each forward edge triggered by one
administrator operation:

	RegisteringVoters → ProposalsRegistrationStarted → ProposalsRegistrationEnded
	  → VotingSessionStarted → VotingSessionEnded → VotesTallied

ResetVoting returns to RegisteringVoters from any phase and clears voters,
proposals and the winner. The administrator never changes.

# Caller Identity

Every operation takes the caller identity explicitly. The package never
authenticates it; the HTTP boundary does that before calling in.

	e, _ := election.New("0xadmin")
	_ = e.RegisterVoter("0xadmin", "0xalice")
	_ = e.StartProposalRegistration("0xadmin")
	id, _ := e.SubmitProposal("0xalice", "Proposal X")

# Errors

Failures are sentinel errors checked with errors.Is (ErrUnauthorized,
ErrWrongPhase, ErrAlreadyRegistered, ErrNotRegistered, ErrAlreadyVoted,
ErrInvalidProposal, ErrNoProposals). All preconditions are checked before any
mutation, so a failed call leaves the state untouched.

# Commands and Events

Mutations can also be expressed as a Command and run through Apply, which is
how the ledger replays its journal. Each successful mutation emits one Event
to the registered observers, synchronously and in call order.

# Tally

TallyVotes picks the first proposal with a strictly greater count while
scanning in identifier order, so ties go to the lowest identifier. With no
proposals the tally still completes and Winner reports ErrNoProposals.
*/
package election
