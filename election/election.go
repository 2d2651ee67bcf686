// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"fmt"
	"sync"
)

// Voter is the per-identity registration and voting status for the current
// cycle.
type Voter struct {
	IsRegistered    bool `json:"is_registered"`
	HasVoted        bool `json:"has_voted"`
	VotedProposalID *int `json:"voted_proposal_id,omitempty"`
}

// Proposal is an option voters can select. ID is its zero-based position in
// submission order.
type Proposal struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	VoteCount   int    `json:"vote_count"`
}

// Election is the single-election workflow state machine. All methods are
// safe for concurrent use; mutations are serialized by one lock.
type Election struct {
	mu sync.RWMutex

	admin      string
	phase      Phase
	voters     map[string]*Voter
	voterOrder []string
	proposals  []Proposal
	winner     *int

	seq       uint64
	observers []Observer
}

// New creates an election administered by admin, in RegisteringVoters.
func New(admin string, opts ...Option) (*Election, error) {
	if admin == "" {
		return nil, fmt.Errorf("admin: %w", ErrEmptyIdentity)
	}

	e := &Election{
		admin:  admin,
		phase:  RegisteringVoters,
		voters: make(map[string]*Voter),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// RegisterVoter adds voter to the electorate. Admin only, and only while
// voters are being registered.
func (e *Election) RegisterVoter(caller, voter string) error {
	_, err := e.Apply(Command{Op: OpRegisterVoter, Caller: caller, Voter: voter})
	return err
}

// StartProposalRegistration opens proposal submission.
func (e *Election) StartProposalRegistration(caller string) error {
	_, err := e.Apply(Command{Op: OpStartProposalRegistration, Caller: caller})
	return err
}

// SubmitProposal appends a proposal and returns its identifier.
func (e *Election) SubmitProposal(caller, description string) (int, error) {
	res, err := e.Apply(Command{Op: OpSubmitProposal, Caller: caller, Description: description})
	if err != nil {
		return 0, err
	}
	return *res.ProposalID, nil
}

// EndProposalRegistration closes proposal submission.
func (e *Election) EndProposalRegistration(caller string) error {
	_, err := e.Apply(Command{Op: OpEndProposalRegistration, Caller: caller})
	return err
}

// StartVotingSession opens the ballot.
func (e *Election) StartVotingSession(caller string) error {
	_, err := e.Apply(Command{Op: OpStartVotingSession, Caller: caller})
	return err
}

// Vote records the caller's single vote for proposalID.
func (e *Election) Vote(caller string, proposalID int) error {
	_, err := e.Apply(Command{Op: OpVote, Caller: caller, ProposalID: proposalID})
	return err
}

// EndVotingSession closes the ballot. Votes can be tallied afterwards.
func (e *Election) EndVotingSession(caller string) error {
	_, err := e.Apply(Command{Op: OpEndVotingSession, Caller: caller})
	return err
}

// TallyVotes selects the winner and moves to VotesTallied. The returned id is
// nil when no proposals were submitted.
func (e *Election) TallyVotes(caller string) (*int, error) {
	res, err := e.Apply(Command{Op: OpTallyVotes, Caller: caller})
	if err != nil {
		return nil, err
	}
	return res.WinningProposalID, nil
}

// ResetVoting clears voters, proposals and the winner and returns to
// RegisteringVoters from any phase. The administrator is kept.
func (e *Election) ResetVoting(caller string) error {
	_, err := e.Apply(Command{Op: OpResetVoting, Caller: caller})
	return err
}

func (e *Election) reset() {
	e.phase = RegisteringVoters
	e.voters = make(map[string]*Voter)
	e.voterOrder = nil
	e.proposals = nil
	e.winner = nil
}

// Admin returns the administrator identity.
func (e *Election) Admin() string {
	return e.admin
}

// Phase returns the current phase.
func (e *Election) Phase() Phase {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.phase
}

// IsAdmin reports whether id is the administrator.
func (e *Election) IsAdmin(id string) bool {
	return id == e.admin
}

func (e *Election) IsRegisteredVoter(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.voters[id]
	return ok && v.IsRegistered
}

// Voter returns a copy of the record for id.
func (e *Election) Voter(id string) (Voter, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.voters[id]
	if !ok {
		return Voter{}, false
	}
	return v.clone(), true
}

// VoterAddresses returns registered identities in registration order.
func (e *Election) VoterAddresses() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string{}, e.voterOrder...)
}

// Proposals returns the proposals in identifier order.
func (e *Election) Proposals() []Proposal {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Proposal{}, e.proposals...)
}

// Proposal returns the proposal with the given identifier.
func (e *Election) Proposal(id int) (Proposal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if id < 0 || id >= len(e.proposals) {
		return Proposal{}, fmt.Errorf("proposal %d: %w", id, ErrInvalidProposal)
	}
	return e.proposals[id], nil
}

// TotalVotes returns the number of voters who have voted this cycle.
func (e *Election) TotalVotes() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totalVotes()
}

func (e *Election) totalVotes() int {
	n := 0
	for _, v := range e.voters {
		if v.HasVoted {
			n++
		}
	}
	return n
}

// Snapshot is a consistent copy of the whole election state.
type Snapshot struct {
	Admin             string           `json:"admin"`
	Phase             Phase            `json:"phase"`
	Voters            map[string]Voter `json:"voters"`
	VoterAddresses    []string         `json:"voter_addresses"`
	Proposals         []Proposal       `json:"proposals"`
	TotalVotes        int              `json:"total_votes"`
	WinningProposalID *int             `json:"winning_proposal_id,omitempty"`
	LastEventSeq      uint64           `json:"last_event_seq"`
}

// Snapshot returns the full state as observed under a single read lock.
func (e *Election) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	voters := make(map[string]Voter, len(e.voters))
	for id, v := range e.voters {
		voters[id] = v.clone()
	}
	return Snapshot{
		Admin:             e.admin,
		Phase:             e.phase,
		Voters:            voters,
		VoterAddresses:    append([]string{}, e.voterOrder...),
		Proposals:         append([]Proposal{}, e.proposals...),
		TotalVotes:        e.totalVotes(),
		WinningProposalID: copyInt(e.winner),
		LastEventSeq:      e.seq,
	}
}

func (v *Voter) clone() Voter {
	c := *v
	c.VotedProposalID = copyInt(v.VotedProposalID)
	return c
}
