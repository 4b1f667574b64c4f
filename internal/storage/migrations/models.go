package migrations

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Snapshot models for the schema as of migration 002. They are kept apart from
// the domain types so later domain changes never rewrite an applied migration.

type VoterRole string

const (
	VoterRoleVoter VoterRole = "voter"
	VoterRoleAdmin VoterRole = "admin"
)

func (vr *VoterRole) Scan(value any) error {
	if value == nil {
		*vr = VoterRoleVoter
		return nil
	}
	switch v := value.(type) {
	case string:
		*vr = VoterRole(v)
	case []byte:
		*vr = VoterRole(v)
	default:
		return fmt.Errorf("cannot scan %T into VoterRole", value)
	}
	return nil
}

func (vr VoterRole) Value() (driver.Value, error) {
	return string(vr), nil
}

type Voter struct {
	ID           string     `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Username     string     `gorm:"size:30;not null;uniqueIndex"`
	PasswordHash string     `gorm:"not null"`
	Role         VoterRole  `gorm:"type:voter_role;not null;default:'voter'"`
	HasVoted     bool       `gorm:"not null;default:false"`
	VotedFor     *string    `gorm:"type:uuid"`
	VotedAt      *time.Time `gorm:"type:timestamptz"`
	CreatedAt    time.Time  `gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (Voter) TableName() string {
	return "voters"
}

type Candidate struct {
	ID              string    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name            string    `gorm:"size:100;not null"`
	Party           string    `gorm:"size:100;not null"`
	Symbol          string    `gorm:"size:16;not null;default:'🗳️'"`
	Color           string    `gorm:"size:7;not null;default:'#6366f1'"`
	FlagRef         *string   `gorm:"column:flag_ref;type:text"`
	VoteCount       int64     `gorm:"not null;default:0"`
	RegistrationSeq int64     `gorm:"column:registration_seq;type:bigserial;not null;uniqueIndex"`
	CreatedAt       time.Time `gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time `gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (Candidate) TableName() string {
	return "candidates"
}

// AllModels returns all snapshot models in creation order
func AllModels() []any {
	return []any{
		&Voter{},
		&Candidate{},
	}
}
