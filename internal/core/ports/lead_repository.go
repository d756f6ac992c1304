package ports

import (
	"context"

	"github.com/relaycrm/crm-api/internal/core/domain"
)

// ListLeadsFilter carries the optional lead list filters.
type ListLeadsFilter struct {
	Status     string
	Source     string
	AssignedTo string
	Search     string // case-insensitive partial match on name or email
	Page       int    // 1-based
	Limit      int
}

// LeadRepository defines persistence operations for leads.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	FindByID(ctx context.Context, id string) (*domain.Lead, error)
	// List returns a page of leads matching filter, newest first, and the total count.
	List(ctx context.Context, filter ListLeadsFilter) ([]*domain.Lead, int64, error)
	Update(ctx context.Context, id string, patch domain.LeadPatch) (*domain.Lead, error)
	Delete(ctx context.Context, id string) error
}
