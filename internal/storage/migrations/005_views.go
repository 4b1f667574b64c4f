package migrations

import "gorm.io/gorm"

// migration005Up creates the tally_audit view used by operators to spot votes
// that were recorded against a voter but never reached the candidate counter.
func migration005Up(db *gorm.DB) error {
	return db.Exec(`
        CREATE OR REPLACE VIEW tally_audit AS
        SELECT
            c.id AS candidate_id,
            c.name,
            c.vote_count AS counted_votes,
            COUNT(v.id) AS recorded_votes,
            COUNT(v.id) - c.vote_count AS missing_votes
        FROM candidates c
        LEFT JOIN voters v ON v.voted_for = c.id AND v.has_voted
        GROUP BY c.id, c.name, c.vote_count, c.registration_seq
        ORDER BY c.registration_seq
    `).Error
}

func migration005Down(db *gorm.DB) error {
	return db.Exec("DROP VIEW IF EXISTS tally_audit").Error
}
