package services

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/tally-api/internal/domain/election"
	"github.com/gravadigital/tally-api/internal/logger"
	"github.com/gravadigital/tally-api/internal/storage/blob"
	"github.com/gravadigital/tally-api/internal/validation"
)

// ElectionService runs the election operations. Role checks are the
// caller's job; every method here trusts its inputs are authorized.
type ElectionService struct {
	voters      election.VoterRegistry
	candidates  election.CandidateRegistry
	coordinator *election.Coordinator
	flags       blob.FlagStore
	validator   validation.CandidateValidation
	log         *log.Logger
}

// NewElectionService wires the tally core over the given registries. flags may
// be nil when candidate images are not supported.
func NewElectionService(voters election.VoterRegistry, candidates election.CandidateRegistry, flags blob.FlagStore) *ElectionService {
	return &ElectionService{
		voters:      voters,
		candidates:  candidates,
		coordinator: election.NewCoordinator(voters, candidates),
		flags:       flags,
		validator:   validation.CandidateValidation{},
		log:         logger.Service("election"),
	}
}

// FlagUpload is an image to store alongside a new candidate
type FlagUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AddCandidateRequest carries the fields of a new candidate
type AddCandidateRequest struct {
	Name   string `json:"name" form:"name"`
	Party  string `json:"party" form:"party"`
	Symbol string `json:"symbol" form:"symbol"`
	Color  string `json:"color" form:"color"`

	// FlagRef points at an already stored image. Ignored when Flag is set.
	FlagRef string      `json:"flagUrl" form:"flagUrl"`
	Flag    *FlagUpload `json:"-" form:"-"`
}

// CastVote records voterID's vote for candidateID
func (s *ElectionService) CastVote(ctx context.Context, voterID, candidateID string) (*election.Receipt, error) {
	return s.coordinator.CastVote(ctx, voterID, candidateID)
}

// AddCandidate registers a candidate with zero votes
func (s *ElectionService) AddCandidate(ctx context.Context, req AddCandidateRequest) (*election.Candidate, error) {
	input := election.CandidateInput{
		Name:    req.Name,
		Party:   req.Party,
		Symbol:  req.Symbol,
		Color:   req.Color,
		FlagRef: req.FlagRef,
	}

	// Validate before touching the flag store
	candidate, err := election.NewCandidate(input)
	if err != nil {
		return nil, err
	}

	var storedFlag string
	if req.Flag != nil {
		if s.flags == nil {
			return nil, election.ErrInvalidCandidate.With("flag uploads are not enabled")
		}
		storedFlag, err = s.flags.Put(ctx, req.Flag.Filename, req.Flag.Body, req.Flag.Size, req.Flag.ContentType)
		if err != nil {
			return nil, election.Internal(err)
		}
		candidate.FlagRef = &storedFlag
	}

	if err := s.candidates.Create(ctx, candidate); err != nil {
		if storedFlag != "" {
			s.removeFlag(ctx, storedFlag)
		}
		return nil, election.Internal(err)
	}

	s.log.Info("Candidate added", "candidate_id", candidate.ID, "name", candidate.Name, "party", candidate.Party)
	return candidate, nil
}

// DeleteCandidate removes a candidate; votes it received stop counting
func (s *ElectionService) DeleteCandidate(ctx context.Context, candidateID string) error {
	if err := s.validator.ValidateCandidateID(candidateID); err != nil {
		return err
	}

	candidate, err := s.candidates.Get(ctx, candidateID)
	if err != nil {
		return election.Internal(err)
	}

	if err := s.candidates.Delete(ctx, candidateID); err != nil {
		return election.Internal(err)
	}

	if candidate.FlagRef != nil {
		s.removeFlag(ctx, *candidate.FlagRef)
	}

	s.log.Info("Candidate deleted", "candidate_id", candidateID, "vote_count", candidate.VoteCount)
	return nil
}

// ListCandidates returns candidates in registration order
func (s *ElectionService) ListCandidates(ctx context.Context) ([]*election.Candidate, error) {
	candidates, err := s.candidates.List(ctx)
	if err != nil {
		return nil, election.Internal(err)
	}
	return candidates, nil
}

// GetResults returns the ranked public tally
func (s *ElectionService) GetResults(ctx context.Context) (election.Results, error) {
	candidates, err := s.candidates.List(ctx)
	if err != nil {
		return election.Results{}, election.Internal(err)
	}
	return election.ComputeResults(candidates), nil
}

// GetStats returns results plus turnout
func (s *ElectionService) GetStats(ctx context.Context) (election.Stats, error) {
	candidates, err := s.candidates.List(ctx)
	if err != nil {
		return election.Stats{}, election.Internal(err)
	}
	voters, err := s.voters.List(ctx)
	if err != nil {
		return election.Stats{}, election.Internal(err)
	}
	return election.ComputeStats(candidates, voters), nil
}

// AuditTally compares candidate counters with voter records
func (s *ElectionService) AuditTally(ctx context.Context) (election.TallyAudit, error) {
	candidates, err := s.candidates.List(ctx)
	if err != nil {
		return election.TallyAudit{}, election.Internal(err)
	}
	voters, err := s.voters.List(ctx)
	if err != nil {
		return election.TallyAudit{}, election.Internal(err)
	}

	audit := election.AuditTally(candidates, voters)
	if !audit.Consistent {
		s.log.Warn("Tally audit found uncounted votes",
			"counted", audit.CountedVotes,
			"recorded", audit.RecordedVotes,
			"missing", audit.Missing)
	}
	return audit, nil
}

func (s *ElectionService) removeFlag(ctx context.Context, ref string) {
	if s.flags == nil {
		return
	}
	if err := s.flags.Delete(context.WithoutCancel(ctx), ref); err != nil {
		s.log.Warn("Failed to delete flag", "ref", ref, "error", err)
	}
}
