package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shopify-insights-service/internal/domain"
	"shopify-insights-service/internal/infrastructure/auth"
	"shopify-insights-service/internal/ports"
)

// AuthService registers dashboard users and exchanges credentials for access
// tokens. Every user belongs to exactly one tenant.
type AuthService struct {
	users   ports.UserRepository
	tenants ports.TenantRepository
	tokens  *auth.TokenManager
	logger  zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tenants ports.TenantRepository, tokens *auth.TokenManager, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tenants: tenants, tokens: tokens, logger: logger}
}

// Register creates a user bound to an existing tenant. A duplicate email
// returns domain.ErrEmailTaken; an unknown tenant returns domain.ErrNotFound.
func (s *AuthService) Register(ctx context.Context, email, password string, tenantID uuid.UUID) (*domain.User, error) {
	if _, err := s.tenants.FindByID(ctx, tenantID); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:          email,
		HashedPassword: hash,
		TenantID:       tenantID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("email", user.Email).
		Str("tenant_id", user.TenantID.String()).
		Msg("User registered")
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if !auth.CheckPassword(user.HashedPassword, password) {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Authenticate resolves a bearer token back to its user. Used by the HTTP
// middleware to establish tenant identity.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	email, err := s.tokens.Parse(token)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}
