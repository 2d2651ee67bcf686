// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseNext(t *testing.T) {
	p := RegisteringVoters
	var seen []Phase
	for {
		seen = append(seen, p)
		next, ok := p.Next()
		if !ok {
			break
		}
		assert.Equal(t, p+1, next)
		p = next
	}
	assert.Equal(t, []Phase{
		RegisteringVoters,
		ProposalsRegistrationStarted,
		ProposalsRegistrationEnded,
		VotingSessionStarted,
		VotingSessionEnded,
		VotesTallied,
	}, seen)
}

func TestPhaseText(t *testing.T) {
	for p := RegisteringVoters; p <= VotesTallied; p++ {
		parsed, err := ParsePhase(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	_, err := ParsePhase("Campaigning")
	assert.Error(t, err)
	assert.Equal(t, "Phase(9)", Phase(9).String())
	assert.False(t, Phase(-1).Valid())

	body, err := json.Marshal(struct {
		Phase Phase `json:"phase"`
	}{VotingSessionStarted})
	require.NoError(t, err)
	assert.JSONEq(t, `{"phase":"VotingSessionStarted"}`, string(body))
}
