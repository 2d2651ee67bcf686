// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"

	"github.com/danielhkuo/quickly-elect/election"
)

func (l *Ledger) RegisterVoter(ctx context.Context, caller, voter string) (election.Result, error) {
	return l.Execute(ctx, election.Command{Op: election.OpRegisterVoter, Caller: caller, Voter: voter})
}

func (l *Ledger) StartProposalRegistration(ctx context.Context, caller string) (election.Result, error) {
	return l.Execute(ctx, election.Command{Op: election.OpStartProposalRegistration, Caller: caller})
}

// SubmitProposal returns the new proposal's id.
func (l *Ledger) SubmitProposal(ctx context.Context, caller, description string) (int, error) {
	res, err := l.Execute(ctx, election.Command{Op: election.OpSubmitProposal, Caller: caller, Description: description})
	if err != nil {
		return 0, err
	}
	return *res.ProposalID, nil
}

func (l *Ledger) EndProposalRegistration(ctx context.Context, caller string) (election.Result, error) {
	return l.Execute(ctx, election.Command{Op: election.OpEndProposalRegistration, Caller: caller})
}

func (l *Ledger) StartVotingSession(ctx context.Context, caller string) (election.Result, error) {
	return l.Execute(ctx, election.Command{Op: election.OpStartVotingSession, Caller: caller})
}

func (l *Ledger) Vote(ctx context.Context, caller string, proposalID int) error {
	_, err := l.Execute(ctx, election.Command{Op: election.OpVote, Caller: caller, ProposalID: proposalID})
	return err
}

func (l *Ledger) EndVotingSession(ctx context.Context, caller string) (election.Result, error) {
	return l.Execute(ctx, election.Command{Op: election.OpEndVotingSession, Caller: caller})
}

// TallyVotes closes the election. The result carries the winning proposal id,
// or nil when no proposals were submitted.
func (l *Ledger) TallyVotes(ctx context.Context, caller string) (election.Result, error) {
	return l.Execute(ctx, election.Command{Op: election.OpTallyVotes, Caller: caller})
}

func (l *Ledger) ResetVoting(ctx context.Context, caller string) (election.Result, error) {
	return l.Execute(ctx, election.Command{Op: election.OpResetVoting, Caller: caller})
}
