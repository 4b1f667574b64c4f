package election

import (
	"math"
	"slices"
)

// CandidateResult is a candidate annotated with its rank and share of the tally
type CandidateResult struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Party      string  `json:"party"`
	Symbol     string  `json:"symbol"`
	Color      string  `json:"color"`
	FlagRef    *string `json:"flagUrl,omitempty"`
	VoteCount  uint64  `json:"voteCount"`
	Percentage float64 `json:"percentage"`
	Rank       int     `json:"rank"`
	IsWinner   bool    `json:"isWinner"`
}

// Results is the ranked public tally
type Results struct {
	Results    []CandidateResult `json:"results"`
	TotalVotes uint64            `json:"totalVotes"`
}

// ComputeResults ranks a candidate snapshot by vote count. Candidates must be
// given in registration order; equal counts keep that order. The input is not
// modified.
func ComputeResults(candidates []*Candidate) Results {
	var total uint64
	for _, c := range candidates {
		total += c.VoteCount
	}

	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, func(a, b *Candidate) int {
		switch {
		case a.VoteCount > b.VoteCount:
			return -1
		case a.VoteCount < b.VoteCount:
			return 1
		default:
			return 0
		}
	})

	results := make([]CandidateResult, 0, len(ranked))
	for i, c := range ranked {
		result := CandidateResult{
			ID:        c.ID,
			Name:      c.Name,
			Party:     c.Party,
			Symbol:    c.Symbol,
			Color:     c.Color,
			VoteCount: c.VoteCount,
			Rank:      i + 1,
			IsWinner:  i == 0 && c.VoteCount > 0,
		}
		if c.FlagRef != nil {
			ref := *c.FlagRef
			result.FlagRef = &ref
		}
		if total > 0 {
			result.Percentage = round1(float64(c.VoteCount) * 100 / float64(total))
		}
		results = append(results, result)
	}

	return Results{
		Results:    results,
		TotalVotes: total,
	}
}

// round1 rounds to one decimal place, halves away from zero
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
