package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/tally-api/internal/domain/election"
	"github.com/gravadigital/tally-api/internal/logger"
)

// PostgresCandidateRepository implements election.CandidateRegistry using GORM
type PostgresCandidateRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresCandidateRepository creates a new PostgreSQL candidate repository
func NewPostgresCandidateRepository(db *gorm.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{
		db:  db,
		log: logger.Repository("candidate"),
	}
}

func (r *PostgresCandidateRepository) Create(ctx context.Context, candidate *election.Candidate) error {
	r.log.Debug("creating candidate", "candidate_id", candidate.ID, "name", candidate.Name, "party", candidate.Party)

	if err := candidate.Validate(); err != nil {
		r.log.Warn("candidate validation failed", "error", err)
		return err
	}

	if err := r.db.WithContext(ctx).Create(candidate).Error; err != nil {
		r.log.Error("failed to create candidate", "error", err, "name", candidate.Name)
		return fmt.Errorf("failed to create candidate: %w", err)
	}

	r.log.Info("candidate created", "candidate_id", candidate.ID, "position", candidate.Position)
	return nil
}

func (r *PostgresCandidateRepository) Get(ctx context.Context, candidateID string) (*election.Candidate, error) {
	if _, err := uuid.Parse(candidateID); err != nil {
		r.log.Debug("invalid candidate ID format", "candidate_id", candidateID)
		return nil, election.ErrCandidateNotFound
	}

	var c election.Candidate
	if err := r.db.WithContext(ctx).Where("id = ?", candidateID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, election.ErrCandidateNotFound
		}
		r.log.Error("failed to retrieve candidate", "candidate_id", candidateID, "error", err)
		return nil, fmt.Errorf("failed to retrieve candidate: %w", err)
	}
	return &c, nil
}

// Increment adds one vote in a single UPDATE ... RETURNING statement, which
// postgres applies atomically under the row lock.
func (r *PostgresCandidateRepository) Increment(ctx context.Context, candidateID string) (uint64, error) {
	if _, err := uuid.Parse(candidateID); err != nil {
		return 0, election.ErrCandidateNotFound
	}

	var c election.Candidate
	result := r.db.WithContext(ctx).
		Model(&c).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "vote_count"}}}).
		Where("id = ?", candidateID).
		UpdateColumns(map[string]any{
			"vote_count": gorm.Expr("vote_count + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		r.log.Error("failed to increment vote count", "candidate_id", candidateID, "error", result.Error)
		return 0, fmt.Errorf("failed to increment vote count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, election.ErrCandidateNotFound
	}

	r.log.Debug("vote count incremented", "candidate_id", candidateID, "vote_count", c.VoteCount)
	return c.VoteCount, nil
}

// Delete removes the candidate. Voters that voted for it keep their voted_for
// reference since voted_for carries no foreign key.
func (r *PostgresCandidateRepository) Delete(ctx context.Context, candidateID string) error {
	if _, err := uuid.Parse(candidateID); err != nil {
		return election.ErrCandidateNotFound
	}

	result := r.db.WithContext(ctx).Where("id = ?", candidateID).Delete(&election.Candidate{})
	if result.Error != nil {
		r.log.Error("failed to delete candidate", "candidate_id", candidateID, "error", result.Error)
		return fmt.Errorf("failed to delete candidate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return election.ErrCandidateNotFound
	}

	r.log.Info("candidate deleted", "candidate_id", candidateID)
	return nil
}

// List returns all candidates in registration order
func (r *PostgresCandidateRepository) List(ctx context.Context) ([]*election.Candidate, error) {
	var candidates []*election.Candidate
	if err := r.db.WithContext(ctx).Order("registration_seq ASC").Find(&candidates).Error; err != nil {
		r.log.Error("failed to list candidates", "error", err)
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}
