package ports

import (
	"context"

	"github.com/relaycrm/crm-api/internal/core/domain"
)

// UserRepository is the credential store. Every read except
// FindCredentialsByEmail omits the password hash.
type UserRepository interface {
	// Create inserts the user and returns it with its store-assigned ID.
	// A duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindCredentialsByEmail is the only read that includes PasswordHash.
	FindCredentialsByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// List returns all users, newest first.
	List(ctx context.Context) ([]*domain.User, error)
	UpdateName(ctx context.Context, id, name string) (*domain.User, error)
	ToggleActive(ctx context.Context, id string) (*domain.User, error)
}
