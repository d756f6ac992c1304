package ports

import (
	"context"

	"github.com/relaycrm/crm-api/internal/core/domain"
)

// CreateUserInput is the admin provisioning payload.
type CreateUserInput struct {
	Name       string
	Email      string
	Role       domain.Role
	Department domain.Department
}

// CreatedUser carries the new account and its one-time temporary password.
type CreatedUser struct {
	User              *domain.User
	TemporaryPassword string
}

type UserService interface {
	CreateUser(ctx context.Context, actor *domain.User, in CreateUserInput) (*CreatedUser, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	ToggleStatus(ctx context.Context, id string) (*domain.User, error)
}
