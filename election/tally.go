// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

// tally scans proposals in identifier order and returns the first one whose
// count is strictly greater than every earlier count, so ties go to the lowest
// identifier. Returns nil for an empty proposal list.
func (e *Election) tally() *int {
	if len(e.proposals) == 0 {
		return nil
	}

	winner := 0
	for i, p := range e.proposals[1:] {
		if p.VoteCount > e.proposals[winner].VoteCount {
			winner = i + 1
		}
	}
	return intPtr(winner)
}

// Winner returns the winning proposal identifier. It fails with ErrWrongPhase
// before tallying and with ErrNoProposals when the tally ran over no proposals.
func (e *Election) Winner() (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.winnerLocked()
}

// WinningProposal returns the winning proposal itself, read under the same
// lock as the winner so a concurrent reset cannot split the two.
func (e *Election) WinningProposal() (Proposal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	id, err := e.winnerLocked()
	if err != nil {
		return Proposal{}, err
	}
	return e.proposals[id], nil
}

func (e *Election) winnerLocked() (int, error) {
	if e.phase != VotesTallied {
		return 0, &PhaseError{Op: "getWinner", Want: VotesTallied, Got: e.phase}
	}
	if e.winner == nil {
		return 0, ErrNoProposals
	}
	return *e.winner, nil
}
