package postgres

import "github.com/gravadigital/tally-api/internal/domain/election"

// Compile-time checks that the GORM repositories satisfy the registries the
// tally core depends on.
var (
	_ election.VoterRegistry     = (*PostgresVoterRepository)(nil)
	_ election.CandidateRegistry = (*PostgresCandidateRepository)(nil)
)
