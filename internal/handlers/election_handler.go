package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/tally-api/internal/logger"
	"github.com/gravadigital/tally-api/internal/middleware/session"
	"github.com/gravadigital/tally-api/internal/response"
	"github.com/gravadigital/tally-api/internal/services"
)

// ElectionHandler exposes the election service over HTTP
type ElectionHandler struct {
	service *services.ElectionService
	log     *log.Logger
}

func NewElectionHandler(service *services.ElectionService) *ElectionHandler {
	return &ElectionHandler{
		service: service,
		log:     logger.Handler("election"),
	}
}

// ListCandidates handles GET /api/election/candidates
func (h *ElectionHandler) ListCandidates(c *gin.Context) {
	candidates, err := h.service.ListCandidates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", candidates)
}

// AddCandidate handles POST /api/election/candidate. Accepts JSON, or a
// multipart form with an optional "flag" image.
func (h *ElectionHandler) AddCandidate(c *gin.Context) {
	var req services.AddCandidateRequest

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBind(&req); err != nil {
			response.BadRequestError(c, "invalid form data")
			return
		}

		header, err := c.FormFile("flag")
		switch {
		case err == nil:
			file, err := header.Open()
			if err != nil {
				response.BadRequestError(c, "could not read flag upload")
				return
			}
			defer file.Close()

			req.Flag = &services.FlagUpload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Body:        file,
			}
		case errors.Is(err, http.ErrMissingFile):
			// No flag attached
		default:
			response.BadRequestError(c, "invalid flag upload")
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.BodyError(c, err, "invalid request body")
		return
	}

	candidate, err := h.service.AddCandidate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.log.Info("Candidate created", "candidate_id", candidate.ID, "by", session.VoterID(c))
	response.SuccessResponse(c, http.StatusCreated, "Candidate added successfully", candidate)
}

// DeleteCandidate handles DELETE /api/election/candidate/:id
func (h *ElectionHandler) DeleteCandidate(c *gin.Context) {
	candidateID := c.Param("id")

	if err := h.service.DeleteCandidate(c.Request.Context(), candidateID); err != nil {
		response.Error(c, err)
		return
	}

	h.log.Info("Candidate removed", "candidate_id", candidateID, "by", session.VoterID(c))
	response.SuccessResponse(c, http.StatusOK, "Candidate deleted successfully", nil)
}

// CastVote handles POST /api/election/vote/:candidateId
func (h *ElectionHandler) CastVote(c *gin.Context) {
	receipt, err := h.service.CastVote(c.Request.Context(), session.VoterID(c), c.Param("candidateId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Vote cast successfully", receipt)
}

// GetResults handles GET /api/election/results
func (h *ElectionHandler) GetResults(c *gin.Context) {
	results, err := h.service.GetResults(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", results)
}

// GetStats handles GET /api/election/stats
func (h *ElectionHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", stats)
}

// GetAudit handles GET /api/election/audit
func (h *ElectionHandler) GetAudit(c *gin.Context) {
	audit, err := h.service.AuditTally(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", audit)
}
