package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/relaycrm/crm-api/internal/api/middleware"
	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	updateFn   func(ctx context.Context, actor *domain.User, name string) (*domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotAuthorized
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, actor *domain.User, name string) (*domain.User, error) {
	return s.updateFn(ctx, actor, name)
}

type stubUserService struct {
	createFn func(ctx context.Context, actor *domain.User, in ports.CreateUserInput) (*ports.CreatedUser, error)
	listFn   func(ctx context.Context) ([]*domain.User, error)
	toggleFn func(ctx context.Context, id string) (*domain.User, error)
}

func (s *stubUserService) CreateUser(ctx context.Context, actor *domain.User, in ports.CreateUserInput) (*ports.CreatedUser, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) ToggleStatus(ctx context.Context, id string) (*domain.User, error) {
	return s.toggleFn(ctx, id)
}

type stubLeadService struct {
	createFn func(ctx context.Context, actor *domain.User, in ports.CreateLeadInput) (*ports.LeadView, error)
	listFn   func(ctx context.Context, f ports.ListLeadsFilter) (*ports.ListLeadsResult, error)
	getFn    func(ctx context.Context, id string) (*ports.LeadView, error)
	updateFn func(ctx context.Context, id string, patch domain.LeadPatch) (*ports.LeadView, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubLeadService) CreateLead(ctx context.Context, actor *domain.User, in ports.CreateLeadInput) (*ports.LeadView, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubLeadService) ListLeads(ctx context.Context, f ports.ListLeadsFilter) (*ports.ListLeadsResult, error) {
	return s.listFn(ctx, f)
}

func (s *stubLeadService) GetLead(ctx context.Context, id string) (*ports.LeadView, error) {
	return s.getFn(ctx, id)
}

func (s *stubLeadService) UpdateLead(ctx context.Context, id string, patch domain.LeadPatch) (*ports.LeadView, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubLeadService) DeleteLead(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubTaskService struct {
	createFn func(ctx context.Context, actor *domain.User, in ports.CreateTaskInput) (*ports.TaskView, error)
	listFn   func(ctx context.Context, actor *domain.User, status string) ([]ports.TaskView, error)
	toggleFn func(ctx context.Context, actor *domain.User, id string) (*ports.TaskView, error)
	deleteFn func(ctx context.Context, actor *domain.User, id string) error
}

func (s *stubTaskService) CreateTask(ctx context.Context, actor *domain.User, in ports.CreateTaskInput) (*ports.TaskView, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubTaskService) ListTasks(ctx context.Context, actor *domain.User, status string) ([]ports.TaskView, error) {
	return s.listFn(ctx, actor, status)
}

func (s *stubTaskService) ToggleTask(ctx context.Context, actor *domain.User, id string) (*ports.TaskView, error) {
	return s.toggleFn(ctx, actor, id)
}

func (s *stubTaskService) DeleteTask(ctx context.Context, actor *domain.User, id string) error {
	return s.deleteFn(ctx, actor, id)
}

// newContext builds an Echo context with the validator installed and, when
// identity is non-nil, an authenticated user attached.
func newContext(method, target, body string, identity *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		middleware.SetIdentity(c, identity)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected %d, got %d: %s", code, rec.Code, rec.Body.String())
	}
}
