package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/tally-api/internal/domain/election"
)

func TestStatusFor(t *testing.T) {
	cases := map[*election.Error]int{
		election.ErrInvalidCandidate:  http.StatusBadRequest,
		election.ErrVoterNotFound:     http.StatusNotFound,
		election.ErrCandidateNotFound: http.StatusNotFound,
		election.ErrAlreadyVoted:      http.StatusConflict,
		election.ErrUsernameTaken:     http.StatusConflict,
		election.ErrUnauthorized:      http.StatusUnauthorized,
		election.ErrForbidden:         http.StatusForbidden,
		election.ErrInternal:          http.StatusInternalServerError,
		election.ErrVoteNotCounted:    http.StatusInternalServerError,
	}
	for err, status := range cases {
		assert.Equal(t, status, StatusFor(err), err.Code)
	}
}

func render(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, err)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestErrorHidesInternalCauses(t *testing.T) {
	w, body := render(t, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Error, "password")
}

func TestErrorFlagsPartialVotes(t *testing.T) {
	w, body := render(t, election.ErrVoteNotCounted.Wrap(errors.New("timeout")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "VOTE_NOT_COUNTED", body.Code)
	assert.True(t, body.Partial)
}

func TestErrorUsesSpecificMessage(t *testing.T) {
	w, body := render(t, election.ErrInvalidCandidate.With("name is required"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name is required", body.Error)
	assert.Equal(t, "INVALID_CANDIDATE", body.Code)
}

func TestBodyError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	BodyError(c, &http.MaxBytesError{Limit: 10}, "invalid request body")
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	BodyError(c, errors.New("unexpected EOF"), "invalid request body")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "BAD_REQUEST", body.Code)
	assert.Equal(t, "invalid request body", body.Error)
}
