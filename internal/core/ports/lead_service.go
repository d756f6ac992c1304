package ports

import (
	"context"

	"github.com/relaycrm/crm-api/internal/core/domain"
)

// CreateLeadInput carries client-supplied lead fields. The creator is never
// taken from the payload.
type CreateLeadInput struct {
	Name       string
	Email      string
	Phone      string
	Source     domain.LeadSource
	AssignedTo string
	Notes      string
}

// LeadView is a lead with its user references expanded.
type LeadView struct {
	Lead       *domain.Lead
	AssignedTo *domain.UserRef
	CreatedBy  *domain.UserRef
}

// ListLeadsResult is returned by ListLeads.
type ListLeadsResult struct {
	Items      []LeadView
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type LeadService interface {
	CreateLead(ctx context.Context, actor *domain.User, in CreateLeadInput) (*LeadView, error)
	ListLeads(ctx context.Context, filter ListLeadsFilter) (*ListLeadsResult, error)
	GetLead(ctx context.Context, id string) (*LeadView, error)
	UpdateLead(ctx context.Context, id string, patch domain.LeadPatch) (*LeadView, error)
	DeleteLead(ctx context.Context, id string) error
}
