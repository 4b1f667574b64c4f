package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gravadigital/tally-api/internal/domain/election"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateRequired checks that a field is not blank
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateMinLength checks the minimum length of a string
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(value) < minLength {
		return fmt.Errorf("%s must be at least %d characters long", fieldName, minLength)
	}
	return nil
}

// ValidateMaxLength checks the maximum length of a string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return fmt.Errorf("%s must be at most %d characters long", fieldName, maxLength)
	}
	return nil
}

// ValidateUUID checks that a string is a valid UUID
func ValidateUUID(value, fieldName string) error {
	if _, err := uuid.Parse(value); err != nil {
		return fmt.Errorf("%s must be a valid UUID", fieldName)
	}
	return nil
}

// AccountValidation holds the rules for registration and login input
type AccountValidation struct{}

// ValidateUsername checks 3 to 30 characters of letters, digits and underscores.
// Surrounding whitespace is ignored.
func (v AccountValidation) ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if err := ValidateRequired(username, "username"); err != nil {
		return invalidVoter(err)
	}
	if err := ValidateMinLength(username, 3, "username"); err != nil {
		return invalidVoter(err)
	}
	if err := ValidateMaxLength(username, 30, "username"); err != nil {
		return invalidVoter(err)
	}
	if !usernamePattern.MatchString(username) {
		return election.ErrInvalidVoter.With("username may only contain letters, numbers and underscores")
	}
	return nil
}

// ValidatePassword checks the minimum password length
func (v AccountValidation) ValidatePassword(password string) error {
	if err := ValidateRequired(password, "password"); err != nil {
		return invalidVoter(err)
	}
	if err := ValidateMinLength(password, 6, "password"); err != nil {
		return invalidVoter(err)
	}
	if err := ValidateMaxLength(password, 72, "password"); err != nil {
		return invalidVoter(err)
	}
	return nil
}

// CandidateValidation checks identifiers coming from the transport layer
type CandidateValidation struct{}

// ValidateCandidateID reports a malformed id as an unknown candidate
func (v CandidateValidation) ValidateCandidateID(id string) error {
	if err := ValidateUUID(id, "candidate_id"); err != nil {
		return election.ErrCandidateNotFound
	}
	return nil
}

func invalidVoter(err error) error {
	return election.ErrInvalidVoter.With(err.Error())
}
