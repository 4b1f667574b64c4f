package migrations

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var indexes = []struct {
	name string
	sql  string
}{
	{"idx_voters_username_lower", "CREATE UNIQUE INDEX IF NOT EXISTS idx_voters_username_lower ON voters (LOWER(username))"},
	{"idx_voters_role_has_voted", "CREATE INDEX IF NOT EXISTS idx_voters_role_has_voted ON voters (role, has_voted)"},
	{"idx_voters_voted_for", "CREATE INDEX IF NOT EXISTS idx_voters_voted_for ON voters (voted_for) WHERE voted_for IS NOT NULL"},
	{"idx_candidates_vote_count", "CREATE INDEX IF NOT EXISTS idx_candidates_vote_count ON candidates (vote_count DESC, registration_seq ASC)"},
}

// migration003Up creates lookup indexes
func migration003Up(db *gorm.DB) error {
	for _, index := range indexes {
		if err := db.Exec(index.sql).Error; err != nil {
			return err
		}
	}
	return nil
}

// migration003Down drops lookup indexes
func migration003Down(db *gorm.DB) error {
	for _, index := range indexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + pq.QuoteIdentifier(index.name)).Error; err != nil {
			return err
		}
	}
	return nil
}
