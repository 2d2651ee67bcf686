// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"errors"
	"fmt"
)

// Every failure is a caller-correctable precondition violation detected
// before any state is touched.
var (
	ErrUnauthorized      = errors.New("caller is not the election administrator")
	ErrWrongPhase        = errors.New("operation not allowed in the current phase")
	ErrAlreadyRegistered = errors.New("voter is already registered")
	ErrNotRegistered     = errors.New("caller is not a registered voter")
	ErrAlreadyVoted      = errors.New("voter has already voted")
	ErrInvalidProposal   = errors.New("proposal does not exist")
	ErrNoProposals       = errors.New("no proposals were submitted")
	ErrEmptyIdentity     = errors.New("identity must not be empty")
	ErrEmptyDescription  = errors.New("proposal description must not be empty")
	ErrUnknownOp         = errors.New("unknown operation")
)

// PhaseError reports an operation attempted outside its required phase.
// It matches ErrWrongPhase under errors.Is.
type PhaseError struct {
	Op   Op
	Want Phase
	Got  Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: requires phase %s, election is in %s", e.Op, e.Want, e.Got)
}

func (e *PhaseError) Is(target error) bool {
	return target == ErrWrongPhase
}
