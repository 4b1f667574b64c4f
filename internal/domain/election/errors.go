package election

import (
	"errors"
	"fmt"
)

// Kind classifies an election error independently of the operation that raised it.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindInternal      Kind = "internal"
)

// Error is the typed failure returned by the tally core and its registries.
// Code is stable and safe to expose to clients.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error

	// Partial is set when a vote was recorded against the voter but the
	// candidate counter could not be incremented.
	Partial bool
}

var (
	ErrVoterNotFound     = &Error{Kind: KindNotFound, Code: "VOTER_NOT_FOUND", Message: "voter not found"}
	ErrCandidateNotFound = &Error{Kind: KindNotFound, Code: "CANDIDATE_NOT_FOUND", Message: "candidate not found"}
	ErrAlreadyVoted      = &Error{Kind: KindConflict, Code: "ALREADY_VOTED", Message: "you have already voted"}
	ErrUsernameTaken     = &Error{Kind: KindConflict, Code: "USERNAME_TAKEN", Message: "username already taken"}
	ErrInvalidCandidate  = &Error{Kind: KindValidation, Code: "INVALID_CANDIDATE", Message: "invalid candidate"}
	ErrInvalidVoter      = &Error{Kind: KindValidation, Code: "INVALID_VOTER", Message: "invalid voter"}
	ErrUnauthorized      = &Error{Kind: KindAuthorization, Code: "UNAUTHORIZED", Message: "unauthorized"}
	ErrForbidden         = &Error{Kind: KindAuthorization, Code: "FORBIDDEN", Message: "admin access required"}
	ErrInternal          = &Error{Kind: KindInternal, Code: "INTERNAL", Message: "internal error"}
	ErrVoteNotCounted    = &Error{Kind: KindInternal, Code: "VOTE_NOT_COUNTED", Message: "vote recorded but not counted", Partial: true}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by code so wrapped copies of a sentinel compare equal to it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// With returns a copy of the sentinel carrying a more specific message.
func (e *Error) With(message string) *Error {
	cp := *e
	cp.Message = message
	return &cp
}

// Wrap returns a copy of the sentinel wrapping cause.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

// Internal lifts an arbitrary storage fault into a KindInternal error.
// Errors that are already typed pass through unchanged.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	return ErrInternal.Wrap(err)
}

// KindOf reports the kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindInternal
}

// IsPartial reports whether err describes a vote recorded without its increment.
func IsPartial(err error) bool {
	var typed *Error
	return errors.As(err, &typed) && typed.Partial
}
