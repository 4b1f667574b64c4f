package election

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the authorization role attached to a voter account
type Role string

const (
	RoleVoter Role = "voter"
	RoleAdmin Role = "admin"
)

// ParseRole maps free-form input onto a role; anything but "admin" is a voter.
func ParseRole(value string) Role {
	if strings.EqualFold(strings.TrimSpace(value), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleVoter
}

func (r *Role) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*r = RoleVoter
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", value)
	}
	return nil
}

func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}

// Voter is a registered participant. HasVoted flips from false to true at most
// once, and VotedFor is set exactly when HasVoted is true.
type Voter struct {
	ID           string     `json:"id" gorm:"type:uuid;primaryKey"`
	Username     string     `json:"username" gorm:"size:30;not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Role         Role       `json:"role" gorm:"type:voter_role;not null;default:'voter'"`
	HasVoted     bool       `json:"hasVoted" gorm:"not null;default:false"`
	VotedFor     *string    `json:"votedFor,omitempty" gorm:"type:uuid"`
	VotedAt      *time.Time `json:"votedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" gorm:"autoCreateTime"`
}

// TableName overrides the table name
func (Voter) TableName() string {
	return "voters"
}

// BeforeCreate will set a UUID rather than numeric ID.
func (v *Voter) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// NewVoter creates a voter that has not voted yet
func NewVoter(username, passwordHash string, role Role) *Voter {
	return &Voter{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
}

// IsAdmin reports whether the voter holds the admin role
func (v *Voter) IsAdmin() bool {
	return v.Role == RoleAdmin
}

// Validate checks the voter record, including the voted/votedFor pairing
func (v *Voter) Validate() error {
	if strings.TrimSpace(v.ID) == "" {
		return ErrInvalidVoter.With("voter id is required")
	}
	if strings.TrimSpace(v.Username) == "" {
		return ErrInvalidVoter.With("username is required")
	}
	if v.Role != RoleVoter && v.Role != RoleAdmin {
		return ErrInvalidVoter.With("role must be voter or admin")
	}
	if v.HasVoted != (v.VotedFor != nil) {
		return ErrInvalidVoter.With("votedFor must be set if and only if hasVoted is true")
	}
	return nil
}

// Clone returns a deep copy so callers never share mutable state with a registry.
func (v *Voter) Clone() *Voter {
	if v == nil {
		return nil
	}
	cp := *v
	if v.VotedFor != nil {
		votedFor := *v.VotedFor
		cp.VotedFor = &votedFor
	}
	if v.VotedAt != nil {
		votedAt := *v.VotedAt
		cp.VotedAt = &votedAt
	}
	return &cp
}

// MarkResult is the outcome of a VoterRegistry compare-and-set.
// Previous is the record as it stood before the call.
type MarkResult struct {
	Applied  bool
	Previous *Voter
}
