package services

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/tally-api/internal/auth"
	"github.com/gravadigital/tally-api/internal/domain/election"
	"github.com/gravadigital/tally-api/internal/logger"
	"github.com/gravadigital/tally-api/internal/validation"
)

var errBadCredentials = election.ErrUnauthorized.With("invalid username or password")

// AuthService registers voters and issues session tokens
type AuthService struct {
	voters      election.VoterRegistry
	tokens      *auth.TokenManager
	adminSecret string
	validator   validation.AccountValidation
	log         *log.Logger
}

func NewAuthService(voters election.VoterRegistry, tokens *auth.TokenManager, adminSecret string) *AuthService {
	return &AuthService{
		voters:      voters,
		tokens:      tokens,
		adminSecret: adminSecret,
		validator:   validation.AccountValidation{},
		log:         logger.Service("auth"),
	}
}

// RegisterRequest is the body of a registration request
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	AdminSecret string `json:"adminSecret"`
}

// LoginRequest is the body of a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is a voter together with a fresh token
type Session struct {
	Token string          `json:"token"`
	Voter *election.Voter `json:"user"`
}

// Register creates a voter. The admin role requires the configured admin secret.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	if err := s.validator.ValidateUsername(req.Username); err != nil {
		return nil, err
	}
	if err := s.validator.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	role := election.ParseRole(req.Role)
	if role == election.RoleAdmin && !s.adminSecretMatches(req.AdminSecret) {
		s.log.Warn("Admin registration rejected", "username", req.Username)
		return nil, election.ErrForbidden.With("invalid admin secret")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, election.Internal(err)
	}

	voter := election.NewVoter(req.Username, hash, role)
	if err := s.voters.Create(ctx, voter); err != nil {
		return nil, election.Internal(err)
	}

	s.log.Info("Voter registered", "voter_id", voter.ID, "username", voter.Username, "role", voter.Role)
	return s.session(voter)
}

// Login checks credentials and issues a token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	voter, err := s.voters.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, election.ErrVoterNotFound) {
			return nil, errBadCredentials
		}
		return nil, election.Internal(err)
	}

	if err := auth.CheckPassword(voter.PasswordHash, req.Password); err != nil {
		return nil, errBadCredentials
	}

	s.log.Debug("Voter logged in", "voter_id", voter.ID)
	return s.session(voter)
}

// Me returns the voter behind an authenticated session
func (s *AuthService) Me(ctx context.Context, voterID string) (*election.Voter, error) {
	voter, err := s.voters.Get(ctx, voterID)
	if err != nil {
		return nil, election.Internal(err)
	}
	return voter, nil
}

func (s *AuthService) session(voter *election.Voter) (*Session, error) {
	token, err := s.tokens.Issue(voter)
	if err != nil {
		return nil, election.Internal(err)
	}
	return &Session{Token: token, Voter: voter}, nil
}

func (s *AuthService) adminSecretMatches(secret string) bool {
	if s.adminSecret == "" || secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.adminSecret), []byte(secret)) == 1
}
