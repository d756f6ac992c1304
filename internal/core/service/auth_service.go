package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

// AuthService implements login, self-registration, bearer authentication and
// profile updates.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	logger zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, logger: logger}
}

// Login checks credentials and issues a token. A deactivated account is
// rejected before the password is compared.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	user, err := s.users.FindCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.burnComparison(password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	if !user.IsActive {
		s.logger.Info().Str("user_id", user.ID).Msg("login rejected: account deactivated")
		return nil, domain.ErrAccountDeactivated
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")
	return &ports.LoginResult{Token: token, User: user.Public()}, nil
}

// burnComparison spends one bcrypt comparison so unknown emails take as
// long as wrong passwords.
func (s *AuthService) burnComparison(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("not-a-real-password")
		if err != nil {
			s.logger.Warn().Err(err).Msg("could not prepare dummy hash")
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		s.hasher.Verify(password, s.dummyHash)
	}
}

// Register creates an active account with the user role.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(in.Email)
	if err := ensureEmailFree(ctx, s.users, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Authenticate resolves a bearer token to an active user. Token failures are
// returned as-is; a missing, unparsable or inactive user yields
// domain.ErrUserNotAuthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("token rejected")
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return nil, domain.ErrUserNotAuthorized
		}
		return nil, fmt.Errorf("load token subject: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrUserNotAuthorized
	}
	return user.Public(), nil
}

// UpdateProfile changes the actor's display name. The password hash is not
// part of the update.
func (s *AuthService) UpdateProfile(ctx context.Context, actor *domain.User, name string) (*domain.User, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	updated, err := s.users.UpdateName(ctx, actor.ID, name)
	if err != nil {
		return nil, err
	}
	return updated.Public(), nil
}

// ensureEmailFree is the friendly pre-check. The unique index still has the
// final word and surfaces as domain.ErrEmailTaken from Create.
func ensureEmailFree(ctx context.Context, users ports.UserRepository, email string) error {
	_, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.ErrEmailTaken
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("check email: %w", err)
	}
}
