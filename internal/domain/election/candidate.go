package election

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultSymbol = "🗳️"
	DefaultColor  = "#6366f1"

	maxNameLength   = 100
	maxPartyLength  = 100
	maxSymbolLength = 16
)

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Candidate is an electable option. VoteCount only grows, through
// CandidateRegistry.Increment.
type Candidate struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Party     string    `json:"party" gorm:"size:100;not null"`
	Symbol    string    `json:"symbol" gorm:"size:16;not null"`
	Color     string    `json:"color" gorm:"size:7;not null"`
	FlagRef   *string   `json:"flagUrl,omitempty" gorm:"column:flag_ref"`
	VoteCount uint64    `json:"voteCount" gorm:"not null;default:0"`
	Position  int64     `json:"-" gorm:"column:registration_seq;autoIncrement;not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// CandidateInput carries the administrative fields of a new candidate.
// Symbol, Color and FlagRef are optional.
type CandidateInput struct {
	Name    string
	Party   string
	Symbol  string
	Color   string
	FlagRef string
}

// TableName overrides the table name
func (Candidate) TableName() string {
	return "candidates"
}

// BeforeCreate will set a UUID rather than numeric ID.
func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// NewCandidate builds a validated candidate with defaults applied
func NewCandidate(in CandidateInput) (*Candidate, error) {
	c := &Candidate{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Party:     strings.TrimSpace(in.Party),
		Symbol:    strings.TrimSpace(in.Symbol),
		Color:     strings.TrimSpace(in.Color),
		CreatedAt: time.Now().UTC(),
	}
	if c.Symbol == "" {
		c.Symbol = DefaultSymbol
	}
	if c.Color == "" {
		c.Color = DefaultColor
	}
	if ref := strings.TrimSpace(in.FlagRef); ref != "" {
		c.FlagRef = &ref
	}
	c.UpdatedAt = c.CreatedAt

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the candidate data is valid
func (c *Candidate) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidCandidate.With("name is required")
	}
	if strings.TrimSpace(c.Party) == "" {
		return ErrInvalidCandidate.With("party is required")
	}
	if len([]rune(c.Name)) > maxNameLength {
		return ErrInvalidCandidate.With("name must be at most 100 characters long")
	}
	if len([]rune(c.Party)) > maxPartyLength {
		return ErrInvalidCandidate.With("party must be at most 100 characters long")
	}
	if len([]rune(c.Symbol)) > maxSymbolLength {
		return ErrInvalidCandidate.With("symbol must be at most 16 characters long")
	}
	if c.Color != "" && !colorPattern.MatchString(c.Color) {
		return ErrInvalidCandidate.With("color must be a hex value such as #6366f1")
	}
	return nil
}

// Clone returns a deep copy so callers never share mutable state with a registry.
func (c *Candidate) Clone() *Candidate {
	if c == nil {
		return nil
	}
	cp := *c
	if c.FlagRef != nil {
		ref := *c.FlagRef
		cp.FlagRef = &ref
	}
	return &cp
}
