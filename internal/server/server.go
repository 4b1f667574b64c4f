package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/tally-api/internal/auth"
	"github.com/gravadigital/tally-api/internal/config"
	"github.com/gravadigital/tally-api/internal/handlers"
	"github.com/gravadigital/tally-api/internal/logger"
	"github.com/gravadigital/tally-api/internal/middleware/events"
	"github.com/gravadigital/tally-api/internal/middleware/session"
	"github.com/gravadigital/tally-api/internal/response"
	"github.com/gravadigital/tally-api/internal/services"
	"github.com/gravadigital/tally-api/internal/storage/blob"
)

// maxJSONBody caps every non-multipart request body
const maxJSONBody = 10 << 10

// Dependencies are the collaborators the HTTP layer is built from
type Dependencies struct {
	Election *services.ElectionService
	Auth     *services.AuthService
	Tokens   *auth.TokenManager

	// Health reports storage health for /ping
	Health func() error

	// StorageInfo describes the storage backend on /ping
	StorageInfo func() map[string]any

	// UploadsDir is served under /uploads when flags are stored locally
	UploadsDir string
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	deps       Dependencies
}

// New creates a new server instance
func New(cfg *config.Config, deps Dependencies) *Server {
	return &Server{
		config: cfg,
		deps:   deps,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: s.Router(),

		// Server timeouts
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.HTTP().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.HTTP().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// Router configures the HTTP router with middleware and routes
func (s *Server) Router() *gin.Engine {
	if s.config.IsProduction() || s.config.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = s.config.Upload.MaxFileSize + 1<<20

	// Core middleware
	router.Use(gin.Recovery())
	router.Use(events.CreateEvent())
	router.Use(cors.New(s.corsConfig()))
	router.Use(limitBody(maxJSONBody))

	router.GET("/ping", s.ping)

	if s.deps.UploadsDir != "" {
		router.Static(strings.TrimSuffix(blob.PublicPrefix, "/"), s.deps.UploadsDir)
	}

	s.setupAPIRoutes(router,
		handlers.NewAuthHandler(s.deps.Auth),
		handlers.NewElectionHandler(s.deps.Election),
	)

	router.NoRoute(func(c *gin.Context) {
		response.ErrorResponseWithMessage(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})

	return router
}

// limitBody wraps request bodies in http.MaxBytesReader. Multipart uploads
// are bounded by the flag store instead.
func limitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil && c.ContentType() != gin.MIMEMultipartPOSTForm {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

func (s *Server) corsConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.SplitList(s.config.CORS.AllowOrigins)
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowCredentials = true
	}
	if methods := config.SplitList(s.config.CORS.AllowMethods); len(methods) > 0 {
		corsConfig.AllowMethods = methods
	}
	if headers := config.SplitList(s.config.CORS.AllowHeaders); len(headers) > 0 {
		corsConfig.AllowHeaders = headers
	} else {
		corsConfig.AddAllowHeaders("Authorization")
	}
	corsConfig.ExposeHeaders = []string{events.RequestIDHeader}
	return corsConfig
}

func (s *Server) ping(c *gin.Context) {
	if s.deps.Health != nil {
		if err := s.deps.Health(); err != nil {
			logger.HTTP().Error("Health check failed", "error", err)
			response.ErrorResponseWithMessage(c, http.StatusServiceUnavailable, "UNHEALTHY", "storage unavailable")
			return
		}
	}
	body := gin.H{
		"message": "Tally API is running",
		"status":  "healthy",
	}
	if s.deps.StorageInfo != nil {
		body["storage"] = s.deps.StorageInfo()
	}
	c.JSON(http.StatusOK, body)
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	electionHandler *handlers.ElectionHandler,
) {
	authenticated := session.Authenticate(s.deps.Tokens)
	adminOnly := session.RequireAdmin()

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/me", authenticated, authHandler.Me)
		}

		election := api.Group("/election")
		{
			election.GET("/candidates", electionHandler.ListCandidates)
			election.GET("/results", electionHandler.GetResults)
			election.POST("/vote/:candidateId", authenticated, electionHandler.CastVote)

			admin := election.Group("", authenticated, adminOnly)
			{
				admin.POST("/candidate", electionHandler.AddCandidate)
				admin.DELETE("/candidate/:id", electionHandler.DeleteCandidate)
				admin.GET("/stats", electionHandler.GetStats)
				admin.GET("/audit", electionHandler.GetAudit)
			}
		}
	}
}
