package election

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voter(id string, role Role, votedFor string) *Voter {
	v := &Voter{ID: id, Username: id, Role: role}
	if votedFor != "" {
		target := votedFor
		v.HasVoted = true
		v.VotedFor = &target
	}
	return v
}

func TestComputeStatsWithoutVoters(t *testing.T) {
	stats := ComputeStats([]*Candidate{candidate("A", 0)}, nil)

	assert.Equal(t, 0, stats.TotalVoters)
	assert.Equal(t, 0, stats.VotesCast)
	assert.Equal(t, 0.0, stats.Turnout)
	assert.Nil(t, stats.Winner)
	assert.Len(t, stats.Candidates, 1)
}

func TestComputeStatsTurnoutCountsVoterRoleOnly(t *testing.T) {
	candidates := []*Candidate{candidate("A", 2), candidate("B", 1)}
	voters := []*Voter{
		voter("v1", RoleVoter, "A"),
		voter("v2", RoleVoter, "B"),
		voter("v3", RoleVoter, ""),
		voter("admin", RoleAdmin, "A"),
	}

	stats := ComputeStats(candidates, voters)

	assert.Equal(t, 3, stats.TotalVoters)
	assert.Equal(t, 2, stats.VotesCast)
	assert.Equal(t, 66.7, stats.Turnout)
	assert.Equal(t, uint64(3), stats.TotalVotes)
	require.NotNil(t, stats.Winner)
	assert.Equal(t, "A", stats.Winner.ID)
	assert.Equal(t, 66.7, stats.Winner.Percentage)
}

func TestComputeStatsMatchesResults(t *testing.T) {
	candidates := []*Candidate{candidate("A", 4), candidate("B", 6)}

	stats := ComputeStats(candidates, nil)
	results := ComputeResults(candidates)

	assert.Equal(t, results.Results, stats.Candidates)
	assert.Equal(t, results.TotalVotes, stats.TotalVotes)
}

func TestAuditTallyConsistent(t *testing.T) {
	candidates := []*Candidate{candidate("A", 1), candidate("B", 1)}
	voters := []*Voter{voter("v1", RoleVoter, "A"), voter("v2", RoleVoter, "B"), voter("v3", RoleVoter, "")}

	audit := AuditTally(candidates, voters)

	assert.True(t, audit.Consistent)
	assert.Equal(t, uint64(2), audit.CountedVotes)
	assert.Equal(t, uint64(2), audit.RecordedVotes)
	assert.Empty(t, audit.Missing)
}

// A was deleted after receiving votes; its voters dangle but the invariant holds.
func TestAuditTallyIgnoresDeletedCandidates(t *testing.T) {
	candidates := []*Candidate{candidate("B", 1)}
	voters := []*Voter{voter("v1", RoleVoter, "A"), voter("v2", RoleVoter, "B")}

	audit := AuditTally(candidates, voters)

	assert.True(t, audit.Consistent)
	assert.Equal(t, uint64(1), audit.DanglingVotes)
}

func TestAuditTallyReportsMissingIncrements(t *testing.T) {
	candidates := []*Candidate{candidate("A", 0), candidate("B", 1)}
	voters := []*Voter{voter("v1", RoleVoter, "A"), voter("v2", RoleVoter, "B")}

	audit := AuditTally(candidates, voters)

	assert.False(t, audit.Consistent)
	assert.Equal(t, map[string]uint64{"A": 1}, audit.Missing)
}
