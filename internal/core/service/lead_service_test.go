package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

func TestLeadService_CreateSetsCreator(t *testing.T) {
	users := newStubUserRepo()
	actor := users.seed(&domain.User{Name: "Mia", Email: "mia@x.com", Role: domain.RoleManager, IsActive: true})
	rep := users.seed(&domain.User{Name: "Rep", Email: "rep@x.com", Role: domain.RoleUser, IsActive: true})
	leads := newStubLeadRepo()
	svc := NewLeadService(leads, users, zerolog.Nop())

	view, err := svc.CreateLead(context.Background(), actor, ports.CreateLeadInput{
		Name:       "Acme",
		Email:      "Buyer@Acme.com",
		AssignedTo: rep.ID,
	})
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	if view.Lead.CreatedBy != actor.ID {
		t.Fatalf("expected createdBy %s, got %s", actor.ID, view.Lead.CreatedBy)
	}
	if view.Lead.Status != domain.LeadNew || view.Lead.Source != domain.SourceWebsite {
		t.Fatalf("unexpected defaults %+v", view.Lead)
	}
	if view.CreatedBy == nil || view.CreatedBy.Name != "Mia" {
		t.Fatalf("expected populated creator, got %+v", view.CreatedBy)
	}
	if view.AssignedTo == nil || view.AssignedTo.ID != rep.ID {
		t.Fatalf("expected populated assignee, got %+v", view.AssignedTo)
	}
}

func TestLeadService_CreateRejectsUnknownAssignee(t *testing.T) {
	users := newStubUserRepo()
	actor := users.seed(&domain.User{Role: domain.RoleUser, IsActive: true})
	leads := newStubLeadRepo()
	svc := NewLeadService(leads, users, zerolog.Nop())

	_, err := svc.CreateLead(context.Background(), actor, ports.CreateLeadInput{Name: "Acme", AssignedTo: "ghost"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields[0].Field != "assignedTo" {
		t.Fatalf("expected assignedTo validation error, got %v", err)
	}
	if len(leads.byID) != 0 {
		t.Fatalf("lead must not be stored")
	}
}

func TestLeadService_NameMustNotBeBlank(t *testing.T) {
	users := newStubUserRepo()
	actor := users.seed(&domain.User{Role: domain.RoleUser, IsActive: true})
	leads := newStubLeadRepo()
	svc := NewLeadService(leads, users, zerolog.Nop())

	var verr *domain.ValidationError
	if _, err := svc.CreateLead(context.Background(), actor, ports.CreateLeadInput{Name: "   "}); !errors.As(err, &verr) || verr.Fields[0].Field != "name" {
		t.Fatalf("create: expected name validation error, got %v", err)
	}
	if len(leads.byID) != 0 {
		t.Fatalf("blank lead must not be stored")
	}

	view, err := svc.CreateLead(context.Background(), actor, ports.CreateLeadInput{Name: " Acme "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.Lead.Name != "Acme" {
		t.Fatalf("expected trimmed name, got %q", view.Lead.Name)
	}

	blank := "   "
	if _, err := svc.UpdateLead(context.Background(), view.Lead.ID, domain.LeadPatch{Name: &blank}); !errors.As(err, &verr) {
		t.Fatalf("update: expected validation error, got %v", err)
	}
	if leads.byID[view.Lead.ID].Name != "Acme" {
		t.Fatalf("name must not change on rejected update")
	}

	padded := "  Acme Corp "
	updated, err := svc.UpdateLead(context.Background(), view.Lead.ID, domain.LeadPatch{Name: &padded})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Lead.Name != "Acme Corp" {
		t.Fatalf("expected trimmed name, got %q", updated.Lead.Name)
	}
}

func TestLeadService_ListPagination(t *testing.T) {
	users := newStubUserRepo()
	actor := users.seed(&domain.User{Role: domain.RoleAdmin, IsActive: true})
	leads := newStubLeadRepo()
	svc := NewLeadService(leads, users, zerolog.Nop())
	for i := 0; i < 3; i++ {
		if _, err := svc.CreateLead(context.Background(), actor, ports.CreateLeadInput{Name: "L"}); err != nil {
			t.Fatalf("seed lead: %v", err)
		}
	}

	res, err := svc.ListLeads(context.Background(), ports.ListLeadsFilter{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if leads.lastFilter.Page != 1 || leads.lastFilter.Limit != 2 {
		t.Fatalf("unexpected normalized filter %+v", leads.lastFilter)
	}
	if res.Total != 3 || res.TotalPages != 2 {
		t.Fatalf("expected 3 total over 2 pages, got %+v", res)
	}
	for _, item := range res.Items {
		if item.CreatedBy == nil || item.CreatedBy.ID != actor.ID {
			t.Fatalf("expected populated creator on every item")
		}
	}

	if _, err := svc.ListLeads(context.Background(), ports.ListLeadsFilter{Limit: 5000}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if leads.lastFilter.Limit != MaxLeadPageSize {
		t.Fatalf("expected limit capped at %d, got %d", MaxLeadPageSize, leads.lastFilter.Limit)
	}

	if _, err := svc.ListLeads(context.Background(), ports.ListLeadsFilter{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if leads.lastFilter.Limit != DefaultLeadPageSize {
		t.Fatalf("expected default limit %d, got %d", DefaultLeadPageSize, leads.lastFilter.Limit)
	}
}

func TestLeadService_Update(t *testing.T) {
	users := newStubUserRepo()
	creator := users.seed(&domain.User{Role: domain.RoleUser, IsActive: true})
	leads := newStubLeadRepo()
	svc := NewLeadService(leads, users, zerolog.Nop())

	view, _ := svc.CreateLead(context.Background(), creator, ports.CreateLeadInput{Name: "Acme"})

	status := domain.LeadQualified
	email := "  SALES@acme.com"
	updated, err := svc.UpdateLead(context.Background(), view.Lead.ID, domain.LeadPatch{Status: &status, Email: &email})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Lead.Status != domain.LeadQualified || updated.Lead.Email != "sales@acme.com" {
		t.Fatalf("unexpected lead %+v", updated.Lead)
	}
	if updated.Lead.CreatedBy != creator.ID {
		t.Fatalf("creator must not change")
	}

	ghost := "ghost"
	var verr *domain.ValidationError
	if _, err := svc.UpdateLead(context.Background(), view.Lead.ID, domain.LeadPatch{AssignedTo: &ghost}); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	name := "x"
	if _, err := svc.UpdateLead(context.Background(), "lead-404", domain.LeadPatch{Name: &name}); !errors.Is(err, domain.ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestLeadService_Delete(t *testing.T) {
	users := newStubUserRepo()
	actor := users.seed(&domain.User{Role: domain.RoleAdmin, IsActive: true})
	leads := newStubLeadRepo()
	svc := NewLeadService(leads, users, zerolog.Nop())

	view, _ := svc.CreateLead(context.Background(), actor, ports.CreateLeadInput{Name: "Acme"})
	if err := svc.DeleteLead(context.Background(), view.Lead.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteLead(context.Background(), view.Lead.ID); !errors.Is(err, domain.ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}
