package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/gravadigital/tally-api/internal/domain/election"
)

func TestLengthMessages(t *testing.T) {
	err := ValidateMinLength("ab", 3, "username")
	assert.EqualError(t, err, "username must be at least 3 characters long")

	err = ValidateMaxLength("abcd", 3, "username")
	assert.EqualError(t, err, "username must be at most 3 characters long")
}

func TestValidateUsername(t *testing.T) {
	v := AccountValidation{}

	valid := []string{"abc", "voter_01", strings.Repeat("a", 30), " alice", "alice \t"}
	for _, name := range valid {
		assert.NoError(t, v.ValidateUsername(name), name)
	}

	invalid := []string{"", "   ", "ab", " ab ", strings.Repeat("a", 31), "has space", "dash-name", "émile"}
	for _, name := range invalid {
		err := v.ValidateUsername(name)
		assert.ErrorIs(t, err, election.ErrInvalidVoter, name)
		assert.Equal(t, election.KindValidation, election.KindOf(err), name)
	}
}

func TestValidatePassword(t *testing.T) {
	v := AccountValidation{}

	assert.NoError(t, v.ValidatePassword("secret"))
	assert.ErrorIs(t, v.ValidatePassword("short"), election.ErrInvalidVoter)
	assert.ErrorIs(t, v.ValidatePassword(""), election.ErrInvalidVoter)
	assert.ErrorIs(t, v.ValidatePassword(strings.Repeat("p", 73)), election.ErrInvalidVoter)
}

func TestValidateCandidateID(t *testing.T) {
	v := CandidateValidation{}

	assert.NoError(t, v.ValidateCandidateID(uuid.NewString()))
	assert.ErrorIs(t, v.ValidateCandidateID("42"), election.ErrCandidateNotFound)
}
