package election

import "context"

// Repository interfaces for the tally core

// VoterRegistry is the durable record of voter eligibility.
//
// TryMarkVoted must be indivisible with respect to every other call for the
// same voter id: it flips HasVoted from false to true and sets VotedFor in one
// step, or leaves the record untouched and reports Applied == false.
type VoterRegistry interface {
	Get(ctx context.Context, voterID string) (*Voter, error)
	TryMarkVoted(ctx context.Context, voterID, candidateID string) (MarkResult, error)
	Create(ctx context.Context, voter *Voter) error
	GetByUsername(ctx context.Context, username string) (*Voter, error)
	List(ctx context.Context) ([]*Voter, error)
}

// CandidateRegistry is the durable record of candidates and their counters.
//
// Increment must be linearizable across concurrent callers. List returns
// candidates in registration order.
type CandidateRegistry interface {
	Get(ctx context.Context, candidateID string) (*Candidate, error)
	Increment(ctx context.Context, candidateID string) (uint64, error)
	Create(ctx context.Context, candidate *Candidate) error
	Delete(ctx context.Context, candidateID string) error
	List(ctx context.Context) ([]*Candidate, error)
}
