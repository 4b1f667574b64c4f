package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gravadigital/tally-api/internal/domain/election"
)

// VoterRepository is an in-memory election.VoterRegistry
type VoterRepository struct {
	mu         sync.RWMutex
	voters     map[string]*election.Voter
	byUsername map[string]string
	now        func() time.Time
}

func NewVoterRepository() *VoterRepository {
	return &VoterRepository{
		voters:     make(map[string]*election.Voter),
		byUsername: make(map[string]string),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *VoterRepository) Create(_ context.Context, voter *election.Voter) error {
	if err := voter.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(voter.Username)
	if _, exists := r.byUsername[key]; exists {
		return election.ErrUsernameTaken
	}
	if _, exists := r.voters[voter.ID]; exists {
		return election.ErrInvalidVoter.With("voter id already exists")
	}

	r.voters[voter.ID] = voter.Clone()
	r.byUsername[key] = voter.ID
	return nil
}

func (r *VoterRepository) Get(_ context.Context, voterID string) (*election.Voter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	voter, ok := r.voters[voterID]
	if !ok {
		return nil, election.ErrVoterNotFound
	}
	return voter.Clone(), nil
}

func (r *VoterRepository) GetByUsername(_ context.Context, username string) (*election.Voter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return nil, election.ErrVoterNotFound
	}
	return r.voters[id].Clone(), nil
}

// TryMarkVoted performs the compare-and-set under the write lock
func (r *VoterRepository) TryMarkVoted(_ context.Context, voterID, candidateID string) (election.MarkResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	voter, ok := r.voters[voterID]
	if !ok {
		return election.MarkResult{}, election.ErrVoterNotFound
	}

	previous := voter.Clone()
	if voter.HasVoted {
		return election.MarkResult{Applied: false, Previous: previous}, nil
	}

	votedFor := candidateID
	votedAt := r.now()
	voter.HasVoted = true
	voter.VotedFor = &votedFor
	voter.VotedAt = &votedAt

	return election.MarkResult{Applied: true, Previous: previous}, nil
}

func (r *VoterRepository) List(_ context.Context) ([]*election.Voter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	voters := make([]*election.Voter, 0, len(r.voters))
	for _, v := range r.voters {
		voters = append(voters, v.Clone())
	}
	sort.Slice(voters, func(i, j int) bool {
		if voters[i].CreatedAt.Equal(voters[j].CreatedAt) {
			return voters[i].ID < voters[j].ID
		}
		return voters[i].CreatedAt.Before(voters[j].CreatedAt)
	})
	return voters, nil
}

// CandidateRepository is an in-memory election.CandidateRegistry
type CandidateRepository struct {
	mu         sync.RWMutex
	candidates map[string]*election.Candidate
	nextPos    int64
	now        func() time.Time
}

func NewCandidateRepository() *CandidateRepository {
	return &CandidateRepository{
		candidates: make(map[string]*election.Candidate),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *CandidateRepository) Create(_ context.Context, candidate *election.Candidate) error {
	if err := candidate.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.candidates[candidate.ID]; exists {
		return election.ErrInvalidCandidate.With("candidate id already exists")
	}

	r.nextPos++
	candidate.Position = r.nextPos
	r.candidates[candidate.ID] = candidate.Clone()
	return nil
}

func (r *CandidateRepository) Get(_ context.Context, candidateID string) (*election.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidate, ok := r.candidates[candidateID]
	if !ok {
		return nil, election.ErrCandidateNotFound
	}
	return candidate.Clone(), nil
}

func (r *CandidateRepository) Increment(_ context.Context, candidateID string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	candidate, ok := r.candidates[candidateID]
	if !ok {
		return 0, election.ErrCandidateNotFound
	}
	candidate.VoteCount++
	candidate.UpdatedAt = r.now()
	return candidate.VoteCount, nil
}

func (r *CandidateRepository) Delete(_ context.Context, candidateID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.candidates[candidateID]; !ok {
		return election.ErrCandidateNotFound
	}
	delete(r.candidates, candidateID)
	return nil
}

// List returns a snapshot ordered by registration position
func (r *CandidateRepository) List(_ context.Context) ([]*election.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := make([]*election.Candidate, 0, len(r.candidates))
	for _, c := range r.candidates {
		candidates = append(candidates, c.Clone())
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Position < candidates[j].Position
	})
	return candidates, nil
}

// Container groups the in-memory repositories behind the storage container API
type Container struct {
	voters     *VoterRepository
	candidates *CandidateRepository
}

func NewContainer() *Container {
	return &Container{
		voters:     NewVoterRepository(),
		candidates: NewCandidateRepository(),
	}
}

func (c *Container) Voters() election.VoterRegistry {
	return c.voters
}

func (c *Container) Candidates() election.CandidateRegistry {
	return c.candidates
}

func (c *Container) Health() error {
	return nil
}

// Info describes the backend and how many records it holds
func (c *Container) Info() map[string]any {
	c.voters.mu.RLock()
	voters := len(c.voters.voters)
	c.voters.mu.RUnlock()

	c.candidates.mu.RLock()
	candidates := len(c.candidates.candidates)
	c.candidates.mu.RUnlock()

	return map[string]any{
		"type":         "memory",
		"repositories": []string{"voters", "candidates"},
		"records":      map[string]int{"voters": voters, "candidates": candidates},
	}
}

func (c *Container) Close() error {
	return nil
}
