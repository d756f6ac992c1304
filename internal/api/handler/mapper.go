package handler

import (
	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toLeadResponse(v ports.LeadView) leadResponse {
	l := v.Lead
	return leadResponse{
		ID:         l.ID,
		Name:       l.Name,
		Email:      l.Email,
		Phone:      l.Phone,
		Source:     l.Source,
		Status:     l.Status,
		AssignedTo: v.AssignedTo,
		CreatedBy:  v.CreatedBy,
		Notes:      l.Notes,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

func toTaskResponse(v ports.TaskView) taskResponse {
	t := v.Task
	return taskResponse{
		ID:         t.ID,
		Title:      t.Title,
		Status:     t.Status,
		Priority:   t.Priority,
		AssignedTo: v.AssignedTo,
		DueDate:    t.DueDate,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// --- Request → Domain ---

func toLeadPatch(req updateLeadRequest) domain.LeadPatch {
	patch := domain.LeadPatch{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		AssignedTo: req.AssignedTo,
		Notes:      req.Notes,
	}
	if req.Source != nil {
		s := domain.LeadSource(*req.Source)
		patch.Source = &s
	}
	if req.Status != nil {
		s := domain.LeadStatus(*req.Status)
		patch.Status = &s
	}
	return patch
}
