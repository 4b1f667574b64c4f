package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/tally-api/internal/domain/election"
	"github.com/gravadigital/tally-api/internal/logger"
)

// PostgresVoterRepository implements election.VoterRegistry using GORM
type PostgresVoterRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresVoterRepository creates a new PostgreSQL voter repository
func NewPostgresVoterRepository(db *gorm.DB) *PostgresVoterRepository {
	return &PostgresVoterRepository{
		db:  db,
		log: logger.Repository("voter"),
	}
}

func (r *PostgresVoterRepository) Create(ctx context.Context, voter *election.Voter) error {
	r.log.Debug("creating voter", "voter_id", voter.ID, "username", voter.Username, "role", voter.Role)

	if err := voter.Validate(); err != nil {
		r.log.Warn("voter validation failed", "error", err, "username", voter.Username)
		return err
	}

	if err := r.db.WithContext(ctx).Create(voter).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Debug("username already taken", "username", voter.Username)
			return election.ErrUsernameTaken
		}
		r.log.Error("failed to create voter", "error", err, "username", voter.Username)
		return fmt.Errorf("failed to create voter: %w", err)
	}

	r.log.Info("voter created", "voter_id", voter.ID, "role", voter.Role)
	return nil
}

func (r *PostgresVoterRepository) Get(ctx context.Context, voterID string) (*election.Voter, error) {
	if _, err := uuid.Parse(voterID); err != nil {
		r.log.Debug("invalid voter ID format", "voter_id", voterID)
		return nil, election.ErrVoterNotFound
	}

	var v election.Voter
	if err := r.db.WithContext(ctx).Where("id = ?", voterID).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, election.ErrVoterNotFound
		}
		r.log.Error("failed to retrieve voter", "voter_id", voterID, "error", err)
		return nil, fmt.Errorf("failed to retrieve voter: %w", err)
	}
	return &v, nil
}

func (r *PostgresVoterRepository) GetByUsername(ctx context.Context, username string) (*election.Voter, error) {
	var v election.Voter
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", strings.TrimSpace(username)).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, election.ErrVoterNotFound
		}
		r.log.Error("failed to retrieve voter by username", "username", username, "error", err)
		return nil, fmt.Errorf("failed to retrieve voter by username: %w", err)
	}
	return &v, nil
}

// TryMarkVoted locks the voter row for the duration of one transaction, so
// concurrent calls for the same voter serialize and only the first one sees
// has_voted = false.
func (r *PostgresVoterRepository) TryMarkVoted(ctx context.Context, voterID, candidateID string) (election.MarkResult, error) {
	if _, err := uuid.Parse(voterID); err != nil {
		return election.MarkResult{}, election.ErrVoterNotFound
	}

	var result election.MarkResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current election.Voter
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", voterID).
			First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return election.ErrVoterNotFound
			}
			return fmt.Errorf("failed to lock voter: %w", err)
		}

		result.Previous = current.Clone()
		if current.HasVoted {
			return nil
		}

		update := tx.Model(&election.Voter{}).
			Where("id = ? AND has_voted = ?", voterID, false).
			Updates(map[string]any{
				"has_voted": true,
				"voted_for": candidateID,
				"voted_at":  time.Now().UTC(),
			})
		if update.Error != nil {
			return fmt.Errorf("failed to mark voter as voted: %w", update.Error)
		}
		if update.RowsAffected != 1 {
			return fmt.Errorf("failed to mark voter as voted: %d rows affected", update.RowsAffected)
		}

		result.Applied = true
		return nil
	})
	if err != nil {
		if !errors.Is(err, election.ErrVoterNotFound) {
			r.log.Error("voter compare-and-set failed", "voter_id", voterID, "error", err)
		}
		return election.MarkResult{}, err
	}

	r.log.Debug("voter compare-and-set", "voter_id", voterID, "candidate_id", candidateID, "applied", result.Applied)
	return result, nil
}

func (r *PostgresVoterRepository) List(ctx context.Context) ([]*election.Voter, error) {
	var voters []*election.Voter
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&voters).Error; err != nil {
		r.log.Error("failed to list voters", "error", err)
		return nil, fmt.Errorf("failed to list voters: %w", err)
	}
	return voters, nil
}
