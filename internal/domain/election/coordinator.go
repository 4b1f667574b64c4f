package election

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/tally-api/internal/logger"
)

// Receipt confirms a counted vote
type Receipt struct {
	CandidateID   string    `json:"candidateId"`
	CandidateName string    `json:"candidateName"`
	Party         string    `json:"party"`
	VoteCount     uint64    `json:"voteCount"`
	VotedAt       time.Time `json:"votedAt"`
}

// Coordinator enforces the one-vote invariant. The voter compare-and-set is
// the only gate: the caller that wins it, and only that caller, increments the
// candidate counter.
type Coordinator struct {
	voters     VoterRegistry
	candidates CandidateRegistry
	now        func() time.Time
	log        *log.Logger
}

func NewCoordinator(voters VoterRegistry, candidates CandidateRegistry) *Coordinator {
	return &Coordinator{
		voters:     voters,
		candidates: candidates,
		now:        func() time.Time { return time.Now().UTC() },
		log:        logger.Tally(),
	}
}

// CastVote records voterID's single vote for candidateID.
func (c *Coordinator) CastVote(ctx context.Context, voterID, candidateID string) (*Receipt, error) {
	c.log.Debug("cast vote requested", "voter_id", voterID, "candidate_id", candidateID)

	if _, err := c.voters.Get(ctx, voterID); err != nil {
		return nil, Internal(err)
	}

	candidate, err := c.candidates.Get(ctx, candidateID)
	if err != nil {
		return nil, Internal(err)
	}

	mark, err := c.voters.TryMarkVoted(ctx, voterID, candidateID)
	if err != nil {
		c.log.Error("voter compare-and-set failed", "voter_id", voterID, "candidate_id", candidateID, "error", err)
		return nil, Internal(err)
	}
	if !mark.Applied {
		previous := ""
		if mark.Previous != nil && mark.Previous.VotedFor != nil {
			previous = *mark.Previous.VotedFor
		}
		c.log.Warn("duplicate vote rejected", "voter_id", voterID, "candidate_id", candidateID, "voted_for", previous)
		return nil, ErrAlreadyVoted
	}

	// The voter is committed as voted from here on. The increment runs on a
	// context that outlives the caller so an abandoned request still counts.
	count, err := c.candidates.Increment(context.WithoutCancel(ctx), candidateID)
	if err != nil {
		c.log.Error("vote recorded but candidate increment failed, reconciliation required",
			"voter_id", voterID,
			"candidate_id", candidateID,
			"error", err)
		return nil, ErrVoteNotCounted.Wrap(err)
	}

	c.log.Info("vote cast", "voter_id", voterID, "candidate_id", candidateID, "vote_count", count)

	return &Receipt{
		CandidateID:   candidate.ID,
		CandidateName: candidate.Name,
		Party:         candidate.Party,
		VoteCount:     count,
		VotedAt:       c.now(),
	}, nil
}
