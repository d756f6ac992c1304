package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

const (
	DefaultLeadPageSize = 20
	MaxLeadPageSize     = 100
)

type LeadService struct {
	leads  ports.LeadRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewLeadService(leads ports.LeadRepository, users ports.UserRepository, logger zerolog.Logger) *LeadService {
	return &LeadService{leads: leads, users: users, logger: logger}
}

// CreateLead stores a new lead. CreatedBy is always the actor.
func (s *LeadService) CreateLead(ctx context.Context, actor *domain.User, in ports.CreateLeadInput) (*ports.LeadView, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	if in.AssignedTo != "" {
		if _, err := requireUser(ctx, s.users, "assignedTo", in.AssignedTo); err != nil {
			return nil, err
		}
	}

	source := in.Source
	if source == "" {
		source = domain.SourceWebsite
	}

	now := time.Now().UTC()
	lead := &domain.Lead{
		Name:       name,
		Email:      domain.NormalizeEmail(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Source:     source,
		Status:     domain.LeadNew,
		AssignedTo: in.AssignedTo,
		CreatedBy:  actor.ID,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("lead_id", lead.ID).
		Str("source", string(lead.Source)).
		Str("created_by", actor.ID).
		Msg("lead created")

	return s.view(ctx, lead)
}

// ListLeads returns one page of leads. Page defaults to 1; limit defaults to
// DefaultLeadPageSize and is capped at MaxLeadPageSize.
func (s *LeadService) ListLeads(ctx context.Context, filter ports.ListLeadsFilter) (*ports.ListLeadsResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	switch {
	case filter.Limit < 1:
		filter.Limit = DefaultLeadPageSize
	case filter.Limit > MaxLeadPageSize:
		filter.Limit = MaxLeadPageSize
	}
	filter.Search = strings.TrimSpace(filter.Search)

	leads, total, err := s.leads.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, 2*len(leads))
	for _, l := range leads {
		ids = append(ids, l.AssignedTo, l.CreatedBy)
	}
	refs, err := userRefs(ctx, s.users, ids...)
	if err != nil {
		return nil, err
	}

	items := make([]ports.LeadView, 0, len(leads))
	for _, l := range leads {
		items = append(items, leadView(l, refs))
	}

	pages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListLeadsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pages,
	}, nil
}

func (s *LeadService) GetLead(ctx context.Context, id string) (*ports.LeadView, error) {
	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, lead)
}

// UpdateLead applies patch. Clearing AssignedTo is allowed; pointing it at a
// missing user is a validation error.
func (s *LeadService) UpdateLead(ctx context.Context, id string, patch domain.LeadPatch) (*ports.LeadView, error) {
	if patch.Empty() {
		return s.GetLead(ctx, id)
	}
	if patch.Name != nil {
		name, err := cleanName(*patch.Name)
		if err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	if patch.AssignedTo != nil && *patch.AssignedTo != "" {
		if _, err := requireUser(ctx, s.users, "assignedTo", *patch.AssignedTo); err != nil {
			return nil, err
		}
	}
	if patch.Email != nil {
		email := domain.NormalizeEmail(*patch.Email)
		patch.Email = &email
	}

	lead, err := s.leads.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, lead)
}

func (s *LeadService) DeleteLead(ctx context.Context, id string) error {
	if err := s.leads.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("lead_id", id).Msg("lead deleted")
	return nil
}

func (s *LeadService) view(ctx context.Context, lead *domain.Lead) (*ports.LeadView, error) {
	refs, err := userRefs(ctx, s.users, lead.AssignedTo, lead.CreatedBy)
	if err != nil {
		return nil, err
	}
	v := leadView(lead, refs)
	return &v, nil
}

func leadView(lead *domain.Lead, refs map[string]*domain.UserRef) ports.LeadView {
	return ports.LeadView{
		Lead:       lead,
		AssignedTo: refs[lead.AssignedTo],
		CreatedBy:  refs[lead.CreatedBy],
	}
}
