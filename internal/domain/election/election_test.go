package election

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCandidateAppliesDefaults(t *testing.T) {
	c, err := NewCandidate(CandidateInput{Name: "  Asha  ", Party: "Alliance"})
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Asha", c.Name)
	assert.Equal(t, DefaultSymbol, c.Symbol)
	assert.Equal(t, DefaultColor, c.Color)
	assert.Nil(t, c.FlagRef)
	assert.Equal(t, uint64(0), c.VoteCount)
}

func TestNewCandidateKeepsOptionalFields(t *testing.T) {
	c, err := NewCandidate(CandidateInput{Name: "Asha", Party: "Alliance", Symbol: "🌱", Color: "#0f0", FlagRef: "/uploads/a.png"})
	require.NoError(t, err)

	assert.Equal(t, "🌱", c.Symbol)
	assert.Equal(t, "#0f0", c.Color)
	require.NotNil(t, c.FlagRef)
	assert.Equal(t, "/uploads/a.png", *c.FlagRef)
}

func TestNewCandidateValidation(t *testing.T) {
	cases := []struct {
		name string
		in   CandidateInput
	}{
		{"missing name", CandidateInput{Party: "P"}},
		{"blank name", CandidateInput{Name: "   ", Party: "P"}},
		{"missing party", CandidateInput{Name: "N"}},
		{"bad color", CandidateInput{Name: "N", Party: "P", Color: "purple"}},
		{"long name", CandidateInput{Name: strings.Repeat("x", 101), Party: "P"}},
		{"long symbol", CandidateInput{Name: "N", Party: "P", Symbol: strings.Repeat("x", 40)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCandidate(tc.in)
			assert.ErrorIs(t, err, ErrInvalidCandidate)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}

func TestNewCandidateSymbolAtLimit(t *testing.T) {
	c, err := NewCandidate(CandidateInput{Name: "N", Party: "P", Symbol: strings.Repeat("★", 16)})
	require.NoError(t, err)
	assert.Equal(t, 16, len([]rune(c.Symbol)))
}

func TestVoterValidatePairsHasVotedWithVotedFor(t *testing.T) {
	v := NewVoter("alice", "hash", RoleVoter)
	assert.NoError(t, v.Validate())

	v.HasVoted = true
	assert.ErrorIs(t, v.Validate(), ErrInvalidVoter)

	target := "c1"
	v.VotedFor = &target
	assert.NoError(t, v.Validate())

	v.HasVoted = false
	assert.ErrorIs(t, v.Validate(), ErrInvalidVoter)
}

func TestVoterCloneIsDeep(t *testing.T) {
	target := "c1"
	v := &Voter{ID: "v", Username: "v", Role: RoleVoter, HasVoted: true, VotedFor: &target}

	cp := v.Clone()
	*cp.VotedFor = "c2"
	assert.Equal(t, "c1", *v.VotedFor)
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole(" Admin "))
	assert.Equal(t, RoleVoter, ParseRole("user"))
	assert.Equal(t, RoleVoter, ParseRole(""))
}

func TestErrorMatchingAndWrapping(t *testing.T) {
	specific := ErrCandidateNotFound.With("candidate 42 not found")
	assert.ErrorIs(t, specific, ErrCandidateNotFound)
	assert.False(t, errors.Is(specific, ErrVoterNotFound))

	wrapped := fmt.Errorf("handler: %w", ErrAlreadyVoted)
	assert.Equal(t, KindConflict, KindOf(wrapped))

	cause := errors.New("disk full")
	internal := Internal(cause)
	assert.ErrorIs(t, internal, ErrInternal)
	assert.ErrorIs(t, internal, cause)
	assert.Equal(t, KindInternal, KindOf(errors.New("untyped")))

	assert.Same(t, ErrVoterNotFound, Internal(ErrVoterNotFound))
	assert.Nil(t, Internal(nil))

	partial := ErrVoteNotCounted.Wrap(cause)
	assert.True(t, IsPartial(partial))
	assert.False(t, IsPartial(internal))
	assert.Contains(t, partial.Error(), "disk full")
}
