// Package session authenticates bearer tokens and enforces roles
package session

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/tally-api/internal/auth"
	"github.com/gravadigital/tally-api/internal/domain/election"
	"github.com/gravadigital/tally-api/internal/response"
)

const (
	voterIDKey = "voter_id"
	roleKey    = "role"
)

// Authenticate requires a valid bearer token and stores its voter id and role
// on the context.
func Authenticate(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			response.UnauthorizedError(c, "authorization header required")
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(tokenString))
		if err != nil {
			response.UnauthorizedError(c, "invalid or expired token")
			return
		}

		c.Set(voterIDKey, claims.VoterID())
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role.
// Must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != election.RoleAdmin {
			response.ForbiddenError(c, "admin access required")
			return
		}
		c.Next()
	}
}

// VoterID returns the authenticated voter id
func VoterID(c *gin.Context) string {
	return c.GetString(voterIDKey)
}

// Role returns the authenticated role
func Role(c *gin.Context) election.Role {
	if role, ok := c.Get(roleKey); ok {
		if r, ok := role.(election.Role); ok {
			return r
		}
	}
	return ""
}
