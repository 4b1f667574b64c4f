package election

// Stats is the admin view of the election: ranked results plus turnout
type Stats struct {
	Candidates  []CandidateResult `json:"candidates"`
	TotalVoters int               `json:"totalVoters"`
	VotesCast   int               `json:"votesCast"`
	Turnout     float64           `json:"turnout"`
	Winner      *CandidateResult  `json:"winner"`
	TotalVotes  uint64            `json:"totalVotes"`
}

// ComputeStats derives turnout and the winner. Only voters with the voter
// role count towards turnout; admins may vote but are not eligible voters for
// the statistics.
func ComputeStats(candidates []*Candidate, voters []*Voter) Stats {
	results := ComputeResults(candidates)

	stats := Stats{
		Candidates: results.Results,
		TotalVotes: results.TotalVotes,
	}

	for _, v := range voters {
		if v.Role != RoleVoter {
			continue
		}
		stats.TotalVoters++
		if v.HasVoted {
			stats.VotesCast++
		}
	}

	if stats.TotalVoters > 0 {
		stats.Turnout = round1(float64(stats.VotesCast) * 100 / float64(stats.TotalVoters))
	}

	for i := range results.Results {
		if results.Results[i].IsWinner {
			winner := results.Results[i]
			stats.Winner = &winner
			break
		}
	}

	return stats
}

// TallyAudit compares candidate counters with voter records at a quiescent point
type TallyAudit struct {
	// CountedVotes is the sum of vote counters over existing candidates.
	CountedVotes uint64 `json:"countedVotes"`
	// RecordedVotes counts voters whose votedFor target still exists.
	RecordedVotes uint64 `json:"recordedVotes"`
	// DanglingVotes counts voters whose candidate has since been deleted.
	DanglingVotes uint64 `json:"danglingVotes"`
	// Missing maps candidate id to recorded votes not reflected in its counter.
	Missing    map[string]uint64 `json:"missing,omitempty"`
	Consistent bool              `json:"consistent"`
}

// AuditTally checks that the counters agree with the voter records, per
// candidate. Disagreement at a quiescent point means a vote was recorded
// without its increment and needs the repair pass.
func AuditTally(candidates []*Candidate, voters []*Voter) TallyAudit {
	audit := TallyAudit{}

	recorded := make(map[string]uint64, len(candidates))
	for _, c := range candidates {
		audit.CountedVotes += c.VoteCount
		recorded[c.ID] = 0
	}

	for _, v := range voters {
		if !v.HasVoted || v.VotedFor == nil {
			continue
		}
		if _, ok := recorded[*v.VotedFor]; !ok {
			audit.DanglingVotes++
			continue
		}
		recorded[*v.VotedFor]++
		audit.RecordedVotes++
	}

	for _, c := range candidates {
		if n := recorded[c.ID]; n > c.VoteCount {
			if audit.Missing == nil {
				audit.Missing = make(map[string]uint64)
			}
			audit.Missing[c.ID] = n - c.VoteCount
		}
	}

	audit.Consistent = audit.CountedVotes == audit.RecordedVotes && len(audit.Missing) == 0
	return audit
}
