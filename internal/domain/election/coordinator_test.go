package election_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/tally-api/internal/domain/election"
	"github.com/gravadigital/tally-api/internal/storage/memory"
)

type fixture struct {
	voters      *memory.VoterRepository
	candidates  *memory.CandidateRepository
	coordinator *election.Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	voters := memory.NewVoterRepository()
	candidates := memory.NewCandidateRepository()
	return &fixture{
		voters:      voters,
		candidates:  candidates,
		coordinator: election.NewCoordinator(voters, candidates),
	}
}

func (f *fixture) addVoter(t *testing.T, username string) *election.Voter {
	t.Helper()
	v := election.NewVoter(username, "hash", election.RoleVoter)
	require.NoError(t, f.voters.Create(context.Background(), v))
	return v
}

func (f *fixture) addCandidate(t *testing.T, name string) *election.Candidate {
	t.Helper()
	c, err := election.NewCandidate(election.CandidateInput{Name: name, Party: name + " Party"})
	require.NoError(t, err)
	require.NoError(t, f.candidates.Create(context.Background(), c))
	return c
}

func (f *fixture) count(t *testing.T, id string) uint64 {
	t.Helper()
	c, err := f.candidates.Get(context.Background(), id)
	require.NoError(t, err)
	return c.VoteCount
}

func TestCastVoteSuccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.addCandidate(t, "A")
	f.addCandidate(t, "B")
	v := f.addVoter(t, "alice")

	receipt, err := f.coordinator.CastVote(ctx, v.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", receipt.CandidateName)
	assert.Equal(t, "A Party", receipt.Party)
	assert.Equal(t, uint64(1), receipt.VoteCount)

	stored, err := f.voters.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasVoted)
	require.NotNil(t, stored.VotedFor)
	assert.Equal(t, a.ID, *stored.VotedFor)
	assert.NotNil(t, stored.VotedAt)
	assert.NoError(t, stored.Validate())
}

func TestCastVoteUnknownVoter(t *testing.T) {
	f := newFixture(t)
	a := f.addCandidate(t, "A")

	_, err := f.coordinator.CastVote(context.Background(), "missing", a.ID)
	assert.ErrorIs(t, err, election.ErrVoterNotFound)
	assert.Equal(t, election.KindNotFound, election.KindOf(err))
	assert.Equal(t, uint64(0), f.count(t, a.ID))
}

func TestCastVoteUnknownCandidateLeavesVoterEligible(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	v := f.addVoter(t, "alice")

	_, err := f.coordinator.CastVote(ctx, v.ID, "missing")
	assert.ErrorIs(t, err, election.ErrCandidateNotFound)

	stored, err := f.voters.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasVoted)
	assert.Nil(t, stored.VotedFor)
}

// Voter casts for A, then tries again for B.
func TestCastVoteSecondAttemptRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.addCandidate(t, "A")
	b := f.addCandidate(t, "B")
	v := f.addVoter(t, "alice")

	_, err := f.coordinator.CastVote(ctx, v.ID, a.ID)
	require.NoError(t, err)

	_, err = f.coordinator.CastVote(ctx, v.ID, b.ID)
	assert.ErrorIs(t, err, election.ErrAlreadyVoted)
	assert.Equal(t, election.KindConflict, election.KindOf(err))

	assert.Equal(t, uint64(1), f.count(t, a.ID))
	assert.Equal(t, uint64(0), f.count(t, b.ID))

	stored, err := f.voters.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, *stored.VotedFor)
}

func TestCastVoteRetryIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.addCandidate(t, "A")
	v := f.addVoter(t, "alice")

	_, err := f.coordinator.CastVote(ctx, v.ID, a.ID)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := f.coordinator.CastVote(ctx, v.ID, a.ID)
		assert.ErrorIs(t, err, election.ErrAlreadyVoted)
	}
	assert.Equal(t, uint64(1), f.count(t, a.ID))
}

func TestConcurrentCastsFromSameVoterCountOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.addCandidate(t, "A")
	b := f.addCandidate(t, "B")
	v := f.addVoter(t, "alice")

	const attempts = 64
	var successes atomic.Int32
	var conflicts atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			target := a.ID
			if i%2 == 1 {
				target = b.ID
			}
			_, err := f.coordinator.CastVote(ctx, v.ID, target)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, election.ErrAlreadyVoted):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(attempts-1), conflicts.Load())
	assert.Equal(t, uint64(1), f.count(t, a.ID)+f.count(t, b.ID))
}

// 100 distinct voters, 60 for A and 40 for B, all at once.
func TestConcurrentDistinctVotersLoseNoUpdates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.addCandidate(t, "A")
	b := f.addCandidate(t, "B")

	voters := make([]*election.Voter, 100)
	for i := range voters {
		voters[i] = f.addVoter(t, fmt.Sprintf("voter_%03d", i))
	}

	var wg sync.WaitGroup
	for i, v := range voters {
		wg.Add(1)
		go func(i int, v *election.Voter) {
			defer wg.Done()
			target := a.ID
			if i >= 60 {
				target = b.ID
			}
			_, err := f.coordinator.CastVote(ctx, v.ID, target)
			assert.NoError(t, err)
		}(i, v)
	}
	wg.Wait()

	assert.Equal(t, uint64(60), f.count(t, a.ID))
	assert.Equal(t, uint64(40), f.count(t, b.ID))

	candidates, err := f.candidates.List(ctx)
	require.NoError(t, err)
	all, err := f.voters.List(ctx)
	require.NoError(t, err)
	assert.True(t, election.AuditTally(candidates, all).Consistent)
}

type failingIncrements struct {
	election.CandidateRegistry
	err error
}

func (f failingIncrements) Increment(context.Context, string) (uint64, error) {
	return 0, f.err
}

func TestCastVoteIncrementFailureIsPartial(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.addCandidate(t, "A")
	v := f.addVoter(t, "alice")

	storageFault := errors.New("connection reset")
	coordinator := election.NewCoordinator(f.voters, failingIncrements{CandidateRegistry: f.candidates, err: storageFault})

	_, err := coordinator.CastVote(ctx, v.ID, a.ID)
	require.Error(t, err)
	assert.Equal(t, election.KindInternal, election.KindOf(err))
	assert.True(t, election.IsPartial(err))
	assert.ErrorIs(t, err, storageFault)

	// The voter stays marked; a retry cannot double count.
	_, err = f.coordinator.CastVote(ctx, v.ID, a.ID)
	assert.ErrorIs(t, err, election.ErrAlreadyVoted)

	candidates, _ := f.candidates.List(ctx)
	voters, _ := f.voters.List(ctx)
	audit := election.AuditTally(candidates, voters)
	assert.False(t, audit.Consistent)
	assert.Equal(t, uint64(1), audit.Missing[a.ID])
}

type failingMarks struct {
	election.VoterRegistry
}

func (failingMarks) TryMarkVoted(context.Context, string, string) (election.MarkResult, error) {
	return election.MarkResult{}, errors.New("deadlock detected")
}

func TestCastVoteCompareAndSetFailureTouchesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.addCandidate(t, "A")
	v := f.addVoter(t, "alice")

	coordinator := election.NewCoordinator(failingMarks{VoterRegistry: f.voters}, f.candidates)

	_, err := coordinator.CastVote(ctx, v.ID, a.ID)
	require.Error(t, err)
	assert.Equal(t, election.KindInternal, election.KindOf(err))
	assert.False(t, election.IsPartial(err))
	assert.Equal(t, uint64(0), f.count(t, a.ID))
}

func TestCastVoteCountsEvenWhenCallerCancelsAfterCommit(t *testing.T) {
	f := newFixture(t)
	a := f.addCandidate(t, "A")
	v := f.addVoter(t, "alice")

	ctx, cancel := context.WithCancel(context.Background())
	coordinator := election.NewCoordinator(cancelAfterMark{VoterRegistry: f.voters, cancel: cancel}, contextCheckingCandidates{f.candidates})

	_, err := coordinator.CastVote(ctx, v.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), f.count(t, a.ID))
}

type cancelAfterMark struct {
	election.VoterRegistry
	cancel context.CancelFunc
}

func (c cancelAfterMark) TryMarkVoted(ctx context.Context, voterID, candidateID string) (election.MarkResult, error) {
	res, err := c.VoterRegistry.TryMarkVoted(ctx, voterID, candidateID)
	c.cancel()
	return res, err
}

type contextCheckingCandidates struct {
	election.CandidateRegistry
}

func (c contextCheckingCandidates) Increment(ctx context.Context, id string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return c.CandidateRegistry.Increment(ctx, id)
}
