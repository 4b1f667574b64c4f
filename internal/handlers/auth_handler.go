package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/tally-api/internal/logger"
	"github.com/gravadigital/tally-api/internal/middleware/session"
	"github.com/gravadigital/tally-api/internal/response"
	"github.com/gravadigital/tally-api/internal/services"
)

type AuthHandler struct {
	service *services.AuthService
	log     *log.Logger
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     logger.Handler("auth"),
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BodyError(c, err, "invalid request body")
		return
	}

	sess, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Registration successful", sess)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BodyError(c, err, "invalid request body")
		return
	}

	sess, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.log.Debug("Login failed", "username", req.Username)
		response.Error(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Login successful", sess)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	voter, err := h.service.Me(c.Request.Context(), session.VoterID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", voter)
}
