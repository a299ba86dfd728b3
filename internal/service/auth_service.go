package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"kovaidetail/internal/auth"
	"kovaidetail/internal/database"
	"kovaidetail/internal/domain"
	"kovaidetail/internal/events"
	"kovaidetail/internal/models"

	"github.com/rs/zerolog"
)

// ErrInvalidCredentials collapses unknown-email and wrong-password so a login
// response cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credential-attempt budget per client key. The window lives in the session
// store, so with redis configured every replica draws from the same budget.
const (
	authAttemptLimit  = 20
	authAttemptWindow = time.Minute
)

type AuthService struct {
	repo       domain.Repository
	sessions   domain.SessionStore
	issuer     *auth.TokenIssuer
	eventBus   domain.EventPublisher
	bcryptCost int
	logger     *zerolog.Logger
}

func NewAuthService(repo domain.Repository, sessions domain.SessionStore, issuer *auth.TokenIssuer, eventBus domain.EventPublisher, bcryptCost int, logger *zerolog.Logger) *AuthService {
	return &AuthService{
		repo:       repo,
		sessions:   sessions,
		issuer:     issuer,
		eventBus:   eventBus,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

type AuthResult struct {
	Token string
	User  *models.User
}

// Register creates a user account and signs it in.
func (s *AuthService) Register(ctx context.Context, name, email, phone, password string) (*AuthResult, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		Phone:        strings.TrimSpace(phone),
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}

	s.publishUserEvent(user)

	s.logger.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("user registered")

	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies the credentials and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("user logged in")

	return &AuthResult{Token: token, User: user}, nil
}

// AllowAttempt reports whether another register/login attempt from the client
// key fits the shared budget. Store errors fail open; the per-IP limiter in
// front of the handlers still applies.
func (s *AuthService) AllowAttempt(ctx context.Context, key string) bool {
	allowed, err := s.sessions.CheckRateLimit(ctx, "auth_attempts:"+key, authAttemptLimit, authAttemptWindow)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("rate limit check failed")
		return true
	}
	return allowed
}

// Logout denies the presented token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	if principal.TokenID == "" {
		return nil
	}
	return s.sessions.RevokeToken(ctx, principal.TokenID, principal.ExpiresAt)
}

// Authenticate verifies a bearer token and checks it against the denylist.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	principal, err := s.issuer.Verify(token)
	if err != nil {
		return nil, err
	}

	if principal.TokenID != "" {
		revoked, err := s.sessions.IsTokenRevoked(ctx, principal.TokenID)
		if err != nil {
			s.logger.Warn().Err(err).Msg("revocation check failed, rejecting token")
			return nil, auth.ErrInvalidToken
		}
		if revoked {
			return nil, auth.ErrInvalidToken
		}
	}

	return principal, nil
}

func (s *AuthService) publishUserEvent(user *models.User) {
	if s.eventBus == nil {
		return
	}

	payload := events.UserEventPayload{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}

	if err := s.eventBus.PublishJSON(events.EventUserRegistered, payload); err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("publish event error")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
