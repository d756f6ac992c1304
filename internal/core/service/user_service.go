package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

// UserService implements the admin user provisioning operations.
type UserService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, logger: logger}
}

// CreateUser provisions an active account with a one-time temporary password.
// Granting the admin role requires an admin actor even though the route is
// already admin-only.
func (s *UserService) CreateUser(ctx context.Context, actor *domain.User, in ports.CreateUserInput) (*ports.CreatedUser, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "role must be one of: admin manager user")
	}
	if !domain.CanGrantRole(actor, role) {
		return nil, domain.ErrAdminRoleRequired
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(in.Email)
	if err := ensureEmailFree(ctx, s.users, email); err != nil {
		return nil, err
	}

	temp := temporaryPassword()
	hash, err := s.hasher.Hash(temp)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Department:   in.Department,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", created.ID).
		Str("role", string(created.Role)).
		Str("created_by", actor.ID).
		Msg("user provisioned")

	return &ports.CreatedUser{User: created, TemporaryPassword: temp}, nil
}

// EnsureAdmin creates an active admin with the given password unless an
// account already owns the email. It reports whether a new account was
// created. Used to bootstrap the first admin outside the HTTP surface.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, bool, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, false, err
	}
	if err := checkPassword(password); err != nil {
		return nil, false, err
	}

	email = domain.NormalizeEmail(email)
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, false, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, false, err
	}
	s.logger.Info().Str("user_id", created.ID).Msg("admin bootstrapped")
	return created, true, nil
}

// temporaryPassword returns 32 random hex characters.
func temporaryPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// ToggleStatus flips isActive on a non-admin account. The flip is a single
// store write; the lookup afterwards only explains a miss.
func (s *UserService) ToggleStatus(ctx context.Context, id string) (*domain.User, error) {
	updated, err := s.users.ToggleActive(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		target, ferr := s.users.FindByID(ctx, id)
		if ferr != nil {
			return nil, ferr
		}
		if target.IsAdmin() {
			return nil, domain.ErrCannotDeactivateAdmin
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", id).Bool("is_active", updated.IsActive).Msg("user status toggled")
	return updated, nil
}
