// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

// EventKind names a state-change notification.
type EventKind string

const (
	EventVoterRegistered      EventKind = "voter_registered"
	EventProposalRegistered   EventKind = "proposal_registered"
	EventVoted                EventKind = "voted"
	EventWorkflowStatusChange EventKind = "workflow_status_change"
	EventElectionReset        EventKind = "election_reset"
)

// Event is emitted once per successful mutating operation, synchronously and
// in operation order. Seq increases monotonically for the lifetime of the
// Election and is not cleared by a reset.
type Event struct {
	Seq        uint64    `json:"seq"`
	Kind       EventKind `json:"kind"`
	Voter      string    `json:"voter,omitempty"`
	ProposalID *int      `json:"proposal_id,omitempty"`
	Previous   *Phase    `json:"previous_phase,omitempty"`
	Current    *Phase    `json:"phase,omitempty"`
}

// Observer receives events while the Election's write lock is held.
// It must not call back into the Election.
type Observer func(Event)

// Option configures an Election at construction.
type Option func(*Election)

// WithObserver registers fn to receive every event.
func WithObserver(fn Observer) Option {
	return func(e *Election) {
		if fn != nil {
			e.observers = append(e.observers, fn)
		}
	}
}

func (e *Election) emit(ev Event) {
	e.seq++
	ev.Seq = e.seq
	for _, fn := range e.observers {
		fn(ev)
	}
}

func (e *Election) emitTransition(kind EventKind, prev, next Phase) {
	e.emit(Event{Kind: kind, Previous: &prev, Current: &next})
}
