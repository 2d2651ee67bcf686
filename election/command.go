// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "fmt"

// Op names a mutating operation.
type Op string

const (
	OpRegisterVoter             Op = "registerVoter"
	OpStartProposalRegistration Op = "startProposalRegistration"
	OpSubmitProposal            Op = "submitProposal"
	OpEndProposalRegistration   Op = "endProposalRegistration"
	OpStartVotingSession        Op = "startVotingSession"
	OpVote                      Op = "vote"
	OpEndVotingSession          Op = "endVotingSession"
	OpTallyVotes                Op = "tallyVotes"
	OpResetVoting               Op = "resetVoting"
)

// transitions maps each forward phase change to the phase it must start from.
var transitions = map[Op]Phase{
	OpStartProposalRegistration: RegisteringVoters,
	OpEndProposalRegistration:   ProposalsRegistrationStarted,
	OpStartVotingSession:        ProposalsRegistrationEnded,
	OpEndVotingSession:          VotingSessionStarted,
	OpTallyVotes:                VotingSessionEnded,
}

// Known reports whether op is one of the nine mutating operations.
func (op Op) Known() bool {
	switch op {
	case OpRegisterVoter, OpSubmitProposal, OpVote, OpResetVoting:
		return true
	}
	_, ok := transitions[op]
	return ok
}

// AdminOnly reports whether op requires the administrator as caller.
func (op Op) AdminOnly() bool {
	switch op {
	case OpSubmitProposal, OpVote:
		return false
	}
	return true
}

// Command is one mutating call with its caller identity and arguments.
// Only the fields relevant to Op are read.
type Command struct {
	Op          Op     `json:"op"`
	Caller      string `json:"caller"`
	Voter       string `json:"voter,omitempty"`
	Description string `json:"description,omitempty"`
	ProposalID  int    `json:"proposal_id,omitempty"`
}

// Result describes the outcome of a successful command.
type Result struct {
	Previous          Phase `json:"previous_phase"`
	Phase             Phase `json:"phase"`
	ProposalID        *int  `json:"proposal_id,omitempty"`
	WinningProposalID *int  `json:"winning_proposal_id,omitempty"`
}

// Validate runs the preconditions of cmd against the current state without
// applying it. A nil result means Apply would succeed if nothing else mutates
// the election in between.
func (e *Election) Validate(cmd Command) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.check(cmd)
}

// Apply checks cmd and, only if every precondition holds, applies it.
func (e *Election) Apply(cmd Command) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.check(cmd); err != nil {
		return Result{Previous: e.phase, Phase: e.phase}, err
	}
	return e.mutate(cmd), nil
}

func (e *Election) check(cmd Command) error {
	if !cmd.Op.Known() {
		return fmt.Errorf("%q: %w", cmd.Op, ErrUnknownOp)
	}
	if cmd.Op.AdminOnly() && cmd.Caller != e.admin {
		return fmt.Errorf("%s: %w", cmd.Op, ErrUnauthorized)
	}

	switch cmd.Op {
	case OpRegisterVoter:
		if err := e.requirePhase(cmd.Op, RegisteringVoters); err != nil {
			return err
		}
		if cmd.Voter == "" {
			return fmt.Errorf("%s: %w", cmd.Op, ErrEmptyIdentity)
		}
		if _, ok := e.voters[cmd.Voter]; ok {
			return fmt.Errorf("%s %s: %w", cmd.Op, cmd.Voter, ErrAlreadyRegistered)
		}
		return nil

	case OpSubmitProposal:
		if err := e.requirePhase(cmd.Op, ProposalsRegistrationStarted); err != nil {
			return err
		}
		if _, err := e.registeredVoter(cmd.Op, cmd.Caller); err != nil {
			return err
		}
		if cmd.Description == "" {
			return fmt.Errorf("%s: %w", cmd.Op, ErrEmptyDescription)
		}
		return nil

	case OpVote:
		if err := e.requirePhase(cmd.Op, VotingSessionStarted); err != nil {
			return err
		}
		v, err := e.registeredVoter(cmd.Op, cmd.Caller)
		if err != nil {
			return err
		}
		if v.HasVoted {
			return fmt.Errorf("%s %s: %w", cmd.Op, cmd.Caller, ErrAlreadyVoted)
		}
		if cmd.ProposalID < 0 || cmd.ProposalID >= len(e.proposals) {
			return fmt.Errorf("%s: proposal %d of %d: %w", cmd.Op, cmd.ProposalID, len(e.proposals), ErrInvalidProposal)
		}
		return nil

	case OpResetVoting:
		return nil
	}

	return e.requirePhase(cmd.Op, transitions[cmd.Op])
}

// mutate applies a command whose preconditions already hold.
func (e *Election) mutate(cmd Command) Result {
	res := Result{Previous: e.phase}

	switch cmd.Op {
	case OpRegisterVoter:
		e.voters[cmd.Voter] = &Voter{IsRegistered: true}
		e.voterOrder = append(e.voterOrder, cmd.Voter)
		e.emit(Event{Kind: EventVoterRegistered, Voter: cmd.Voter})

	case OpSubmitProposal:
		id := len(e.proposals)
		e.proposals = append(e.proposals, Proposal{ID: id, Description: cmd.Description})
		res.ProposalID = intPtr(id)
		e.emit(Event{Kind: EventProposalRegistered, Voter: cmd.Caller, ProposalID: intPtr(id)})

	case OpVote:
		v := e.voters[cmd.Caller]
		v.HasVoted = true
		v.VotedProposalID = intPtr(cmd.ProposalID)
		e.proposals[cmd.ProposalID].VoteCount++
		e.emit(Event{Kind: EventVoted, Voter: cmd.Caller, ProposalID: intPtr(cmd.ProposalID)})

	case OpTallyVotes:
		e.winner = e.tally()
		res.WinningProposalID = copyInt(e.winner)
		e.advance()

	case OpResetVoting:
		prev := e.phase
		e.reset()
		e.emitTransition(EventElectionReset, prev, e.phase)

	default:
		e.advance()
	}

	res.Phase = e.phase
	return res
}

func (e *Election) advance() {
	prev := e.phase
	next, _ := prev.Next()
	e.phase = next
	e.emitTransition(EventWorkflowStatusChange, prev, next)
}

func (e *Election) requirePhase(op Op, want Phase) error {
	if e.phase != want {
		return &PhaseError{Op: op, Want: want, Got: e.phase}
	}
	return nil
}

func (e *Election) registeredVoter(op Op, id string) (*Voter, error) {
	v, ok := e.voters[id]
	if !ok || !v.IsRegistered {
		return nil, fmt.Errorf("%s %s: %w", op, id, ErrNotRegistered)
	}
	return v, nil
}

func intPtr(i int) *int { return &i }

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	return intPtr(*p)
}
