package migrations

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// voters.voted_for intentionally has no foreign key: deleting a candidate
// leaves the reference dangling and the vote drops out of every total.
var constraints = []struct {
	table string
	name  string
	check string
}{
	{"voters", "chk_voters_voted_for_iff_has_voted", "(has_voted AND voted_for IS NOT NULL) OR (NOT has_voted AND voted_for IS NULL)"},
	{"voters", "chk_voters_voted_at_iff_has_voted", "has_voted = (voted_at IS NOT NULL)"},
	{"voters", "chk_voters_username_not_empty", "length(trim(username)) > 0"},
	{"candidates", "chk_candidates_vote_count_non_negative", "vote_count >= 0"},
	{"candidates", "chk_candidates_name_not_empty", "length(trim(name)) > 0"},
	{"candidates", "chk_candidates_party_not_empty", "length(trim(party)) > 0"},
}

// migration004Up adds check constraints and the has_voted guard trigger
func migration004Up(db *gorm.DB) error {
	for _, c := range constraints {
		sql := "ALTER TABLE " + pq.QuoteIdentifier(c.table) +
			" ADD CONSTRAINT " + pq.QuoteIdentifier(c.name) +
			" CHECK (" + c.check + ")"
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}

	if err := db.Exec(`
        CREATE OR REPLACE FUNCTION prevent_vote_reversal()
        RETURNS TRIGGER AS $$
        BEGIN
            IF OLD.has_voted AND (NOT NEW.has_voted OR NEW.voted_for IS DISTINCT FROM OLD.voted_for) THEN
                RAISE EXCEPTION 'voter % has already voted', OLD.id;
            END IF;
            RETURN NEW;
        END;
        $$ LANGUAGE plpgsql
    `).Error; err != nil {
		return err
	}

	return db.Exec(`
        CREATE TRIGGER trg_voters_prevent_vote_reversal
            BEFORE UPDATE ON voters
            FOR EACH ROW EXECUTE FUNCTION prevent_vote_reversal()
    `).Error
}

// migration004Down removes the trigger and constraints
func migration004Down(db *gorm.DB) error {
	if err := db.Exec("DROP TRIGGER IF EXISTS trg_voters_prevent_vote_reversal ON voters").Error; err != nil {
		return err
	}
	if err := db.Exec("DROP FUNCTION IF EXISTS prevent_vote_reversal()").Error; err != nil {
		return err
	}
	for _, c := range constraints {
		sql := "ALTER TABLE " + pq.QuoteIdentifier(c.table) +
			" DROP CONSTRAINT IF EXISTS " + pq.QuoteIdentifier(c.name)
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}
	return nil
}
