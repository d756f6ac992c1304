package handler

import (
	"time"

	"github.com/relaycrm/crm-api/internal/core/domain"
)

// Request and response types owned by the transport layer. They are kept
// apart from domain types so the JSON contract does not follow internal
// changes.

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type updateProfileRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

type loginUser struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type loginResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    loginUser `json:"user"`
}

// --- Users ---

type createUserRequest struct {
	Name       string `json:"name"       validate:"required,min=2"`
	Email      string `json:"email"      validate:"required,email"`
	Role       string `json:"role"       validate:"omitempty,oneof=admin manager user"`
	Department string `json:"department" validate:"omitempty,oneof=sales leads"`
}

type userResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Role       domain.Role       `json:"role"`
	Department domain.Department `json:"department,omitempty"`
	IsActive   bool              `json:"isActive"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

type userEnvelope struct {
	Message string       `json:"message,omitempty"`
	User    userResponse `json:"user"`
}

type createUserResponse struct {
	Message           string       `json:"message"`
	User              userResponse `json:"user"`
	TemporaryPassword string       `json:"temporaryPassword"`
}

type listUsersResponse struct {
	Users []userResponse `json:"users"`
}

type dashboardResponse struct {
	Message string       `json:"message"`
	Admin   userResponse `json:"admin"`
}

// --- Leads ---

type createLeadRequest struct {
	Name       string `json:"name"       validate:"required,min=2"`
	Email      string `json:"email"      validate:"omitempty,email"`
	Phone      string `json:"phone"      validate:"omitempty,max=32"`
	Source     string `json:"source"     validate:"omitempty,oneof=website call email referral ads"`
	AssignedTo string `json:"assignedTo"`
	Notes      string `json:"notes"      validate:"omitempty,max=2000"`
}

// updateLeadRequest uses pointers so absent fields are left untouched. An
// empty assignedTo, phone or notes clears the field.
type updateLeadRequest struct {
	Name       *string `json:"name"       validate:"omitempty,min=2"`
	Email      *string `json:"email"      validate:"omitempty,email"`
	Phone      *string `json:"phone"      validate:"omitempty,max=32"`
	Source     *string `json:"source"     validate:"omitempty,oneof=website call email referral ads"`
	Status     *string `json:"status"     validate:"omitempty,oneof=new contacted qualified converted lost"`
	AssignedTo *string `json:"assignedTo"`
	Notes      *string `json:"notes"      validate:"omitempty,max=2000"`
}

type leadResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email,omitempty"`
	Phone      string            `json:"phone,omitempty"`
	Source     domain.LeadSource `json:"source"`
	Status     domain.LeadStatus `json:"status"`
	AssignedTo *domain.UserRef   `json:"assignedTo"`
	CreatedBy  *domain.UserRef   `json:"createdBy"`
	Notes      string            `json:"notes,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

type leadEnvelope struct {
	Message string       `json:"message,omitempty"`
	Lead    leadResponse `json:"lead"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type listLeadsResponse struct {
	Leads      []leadResponse     `json:"leads"`
	Pagination paginationResponse `json:"pagination"`
}

// --- Tasks ---

type createTaskRequest struct {
	Title      string     `json:"title"      validate:"required,min=2,max=200"`
	Priority   string     `json:"priority"   validate:"omitempty,oneof=low medium high"`
	DueDate    *time.Time `json:"dueDate"`
	AssignedTo string     `json:"assignedTo"`
}

type taskResponse struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Status     domain.TaskStatus   `json:"status"`
	Priority   domain.TaskPriority `json:"priority"`
	AssignedTo *domain.UserRef     `json:"assignedTo"`
	DueDate    *time.Time          `json:"dueDate,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

type taskEnvelope struct {
	Message string       `json:"message"`
	Task    taskResponse `json:"task"`
}

type listTasksResponse struct {
	Tasks []taskResponse `json:"tasks"`
}

// --- Shared ---

type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}
