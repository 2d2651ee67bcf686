// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/notify"
	"github.com/danielhkuo/quickly-elect/store"
)

const (
	admin = "admin"
	alice = "alice"
	bob   = "bob"
)

var errDiskFull = errors.New("disk full")

// flakyJournal fails every Append while failing is set.
type flakyJournal struct {
	*store.MemoryJournal
	failing bool
}

func (f *flakyJournal) Append(ctx context.Context, e store.Entry) error {
	if f.failing {
		return errDiskFull
	}
	return f.MemoryJournal.Append(ctx, e)
}

func openLedger(t *testing.T, j store.Journal, b *notify.Broker) *Ledger {
	t.Helper()
	l, err := Open(context.Background(), admin, j, b)
	require.NoError(t, err)
	return l
}

// runElection drives a full election: alice and bob register, submit one
// proposal each, and both vote for bob's.
func runElection(t *testing.T, l *Ledger) {
	t.Helper()
	ctx := context.Background()

	_, err := l.RegisterVoter(ctx, admin, alice)
	require.NoError(t, err)
	_, err = l.RegisterVoter(ctx, admin, bob)
	require.NoError(t, err)
	_, err = l.StartProposalRegistration(ctx, admin)
	require.NoError(t, err)

	id, err := l.SubmitProposal(ctx, alice, "Pizza")
	require.NoError(t, err)
	assert.Equal(t, 0, id)
	id, err = l.SubmitProposal(ctx, bob, "Tacos")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	_, err = l.EndProposalRegistration(ctx, admin)
	require.NoError(t, err)
	_, err = l.StartVotingSession(ctx, admin)
	require.NoError(t, err)
	require.NoError(t, l.Vote(ctx, alice, 1))
	require.NoError(t, l.Vote(ctx, bob, 1))
	_, err = l.EndVotingSession(ctx, admin)
	require.NoError(t, err)

	res, err := l.TallyVotes(ctx, admin)
	require.NoError(t, err)
	require.NotNil(t, res.WinningProposalID)
	assert.Equal(t, 1, *res.WinningProposalID)
	assert.Equal(t, election.VotesTallied, res.Phase)
}

func TestExecuteJournalsSuccessfulCommands(t *testing.T) {
	ctx := context.Background()
	j := store.NewMemoryJournal()
	l := openLedger(t, j, nil)

	runElection(t, l)

	entries, err := j.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 11)
	assert.Equal(t, uint64(11), l.JournalSeq())
	assert.Equal(t, election.OpTallyVotes, entries[10].Command.Op)
}

func TestExecuteDoesNotJournalRejectedCommands(t *testing.T) {
	ctx := context.Background()
	j := store.NewMemoryJournal()
	l := openLedger(t, j, nil)

	_, err := l.RegisterVoter(ctx, alice, bob)
	assert.ErrorIs(t, err, election.ErrUnauthorized)

	err = l.Vote(ctx, alice, 0)
	assert.ErrorIs(t, err, election.ErrWrongPhase)

	_, err = l.Execute(ctx, election.Command{Op: "selfDestruct", Caller: admin})
	assert.ErrorIs(t, err, election.ErrUnknownOp)

	entries, err := j.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, l.History(0))
}

func TestJournalFailureLeavesElectionUntouched(t *testing.T) {
	ctx := context.Background()
	j := &flakyJournal{MemoryJournal: store.NewMemoryJournal()}
	b := notify.NewBroker(nil)
	defer b.Shutdown()
	_, events := b.Subscribe(8)

	l := openLedger(t, j, b)

	j.failing = true
	_, err := l.RegisterVoter(ctx, admin, alice)
	require.ErrorIs(t, err, errDiskFull)
	assert.False(t, l.Election().IsRegisteredVoter(alice))
	assert.Empty(t, l.History(0))

	j.failing = false
	_, err = l.RegisterVoter(ctx, admin, alice)
	require.NoError(t, err)
	assert.True(t, l.Election().IsRegisteredVoter(alice))

	select {
	case env := <-events:
		assert.Equal(t, election.EventVoterRegistered, env.Event.Kind)
		assert.Equal(t, uint64(1), env.Event.Seq)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestReplayRestoresState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := store.NewBoltJournal(path)
	require.NoError(t, err)
	l := openLedger(t, j, nil)
	runElection(t, l)
	before := l.Election().Snapshot()
	require.NoError(t, l.Close())

	j, err = store.NewBoltJournal(path)
	require.NoError(t, err)
	restored := openLedger(t, j, nil)
	defer restored.Close()

	assert.Equal(t, before, restored.Election().Snapshot())
	assert.Equal(t, uint64(11), restored.JournalSeq())

	winner, err := restored.Election().Winner()
	require.NoError(t, err)
	assert.Equal(t, 1, winner)

	assert.Len(t, restored.History(0), len(runElectionEvents))
}

// runElectionEvents is the event sequence runElection produces.
var runElectionEvents = []election.EventKind{
	election.EventVoterRegistered,
	election.EventVoterRegistered,
	election.EventWorkflowStatusChange,
	election.EventProposalRegistered,
	election.EventProposalRegistered,
	election.EventWorkflowStatusChange,
	election.EventWorkflowStatusChange,
	election.EventVoted,
	election.EventVoted,
	election.EventWorkflowStatusChange,
	election.EventWorkflowStatusChange,
}

func TestReplayPublishesNothing(t *testing.T) {
	j := store.NewMemoryJournal()
	runElection(t, openLedger(t, j, nil))

	b := notify.NewBroker(nil)
	_, events := b.Subscribe(64)
	openLedger(t, j, b)
	b.Shutdown()

	count := 0
	for range events {
		count++
	}
	assert.Zero(t, count)
}

func TestOpenRejectsDifferentAdmin(t *testing.T) {
	j := store.NewMemoryJournal()
	openLedger(t, j, nil)

	_, err := Open(context.Background(), "mallory", j, nil)
	assert.ErrorIs(t, err, store.ErrAdminMismatch)
}

func TestOpenRejectsCorruptJournal(t *testing.T) {
	ctx := context.Background()
	j := store.NewMemoryJournal()
	require.NoError(t, j.Append(ctx, store.Entry{
		Seq:     1,
		Command: election.Command{Op: election.OpVote, Caller: alice},
	}))

	_, err := Open(ctx, admin, j, nil)
	assert.ErrorIs(t, err, election.ErrWrongPhase)
}

func TestHistory(t *testing.T) {
	l := openLedger(t, store.NewMemoryJournal(), nil)
	runElection(t, l)

	all := l.History(0)
	require.Len(t, all, len(runElectionEvents))
	for i, ev := range all {
		assert.Equal(t, uint64(i+1), ev.Seq)
		assert.Equal(t, runElectionEvents[i], ev.Kind)
	}

	tail := l.History(9)
	require.Len(t, tail, 2)
	assert.Equal(t, uint64(10), tail[0].Seq)

	assert.Empty(t, l.History(100))
}

func TestHistoryIsCapped(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, store.NewMemoryJournal(), nil)

	for i := 0; i < HistoryLimit+20; i++ {
		_, err := l.ResetVoting(ctx, admin)
		require.NoError(t, err)
	}

	h := l.History(0)
	require.Len(t, h, HistoryLimit)
	assert.Equal(t, uint64(21), h[0].Seq)
	assert.Equal(t, uint64(HistoryLimit+20), h[len(h)-1].Seq)
}

func TestEventsPublishedInOrder(t *testing.T) {
	b := notify.NewBroker(nil)
	_, events := b.Subscribe(64)
	l := openLedger(t, store.NewMemoryJournal(), b)

	runElection(t, l)
	b.Shutdown()

	var kinds []election.EventKind
	for env := range events {
		kinds = append(kinds, env.Event.Kind)
	}
	assert.Equal(t, runElectionEvents, kinds)
}
