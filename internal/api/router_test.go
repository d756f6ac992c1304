package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

var tokenUsers = map[string]*domain.User{
	"admin-token":   {ID: "a1", Name: "Root", Role: domain.RoleAdmin, IsActive: true},
	"manager-token": {ID: "m1", Name: "Mia", Role: domain.RoleManager, IsActive: true},
	"user-token":    {ID: "u1", Name: "Uma", Role: domain.RoleUser, IsActive: true},
}

type fakeAuth struct{}

func (fakeAuth) Login(context.Context, string, string) (*ports.LoginResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func (fakeAuth) Register(context.Context, ports.RegisterInput) (*domain.User, error) {
	return nil, domain.ErrEmailTaken
}

func (fakeAuth) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if token == "expired-token" {
		return nil, domain.ErrTokenExpired
	}
	u, ok := tokenUsers[token]
	if !ok {
		return nil, domain.ErrTokenMalformed
	}
	return u, nil
}

func (fakeAuth) UpdateProfile(context.Context, *domain.User, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

type fakeUsers struct{ listed bool }

func (f *fakeUsers) CreateUser(context.Context, *domain.User, ports.CreateUserInput) (*ports.CreatedUser, error) {
	return nil, domain.ErrEmailTaken
}

func (f *fakeUsers) ListUsers(context.Context) ([]*domain.User, error) {
	f.listed = true
	return []*domain.User{tokenUsers["admin-token"]}, nil
}

func (f *fakeUsers) ToggleStatus(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrInvalidID
}

type fakeLeads struct{ deleted bool }

func (f *fakeLeads) CreateLead(context.Context, *domain.User, ports.CreateLeadInput) (*ports.LeadView, error) {
	return nil, domain.NewValidationError("assignedTo", "user does not exist")
}

func (f *fakeLeads) ListLeads(context.Context, ports.ListLeadsFilter) (*ports.ListLeadsResult, error) {
	return &ports.ListLeadsResult{Page: 1, Limit: 20}, nil
}

func (f *fakeLeads) GetLead(context.Context, string) (*ports.LeadView, error) {
	return nil, domain.ErrInvalidID
}

func (f *fakeLeads) UpdateLead(context.Context, string, domain.LeadPatch) (*ports.LeadView, error) {
	return nil, domain.ErrLeadNotFound
}

func (f *fakeLeads) DeleteLead(context.Context, string) error {
	f.deleted = true
	return nil
}

type fakeTasks struct{}

func (fakeTasks) CreateTask(context.Context, *domain.User, ports.CreateTaskInput) (*ports.TaskView, error) {
	return nil, domain.ErrUserNotFound
}

func (fakeTasks) ListTasks(context.Context, *domain.User, string) ([]ports.TaskView, error) {
	return nil, nil
}

func (fakeTasks) ToggleTask(context.Context, *domain.User, string) (*ports.TaskView, error) {
	return nil, domain.ErrTaskNotFound
}

func (fakeTasks) DeleteTask(context.Context, *domain.User, string) error {
	return domain.ErrTaskNotFound
}

type testServer struct {
	e     *echo.Echo
	users *fakeUsers
	leads *fakeLeads
}

func newTestServer() *testServer {
	users := &fakeUsers{}
	leads := &fakeLeads{}
	reg := prometheus.NewRegistry()
	e := NewRouter(Deps{
		Auth:       fakeAuth{},
		Users:      users,
		Leads:      leads,
		Tasks:      fakeTasks{},
		Logger:     zerolog.Nop(),
		Registerer: reg,
		Gatherer:   reg,
	})
	return &testServer{e: e, users: users, leads: leads}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: invalid json %q", method, path, rec.Body.String())
		}
	}
	return rec.Code, out
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRouter_Health(t *testing.T) {
	s := newTestServer()

	code, body := s.do(t, http.MethodGet, "/health", "", "")
	if code != http.StatusOK || body["status"] != "OK" {
		t.Fatalf("unexpected health response %d %v", code, body)
	}
}

func TestRouter_AdminRouteWithoutToken(t *testing.T) {
	s := newTestServer()

	code, body := s.do(t, http.MethodGet, "/api/admin/users", "", "")
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if body["message"] != "Not Authorized, Token is Missing" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if s.users.listed {
		t.Fatalf("handler must not run")
	}
}

func TestRouter_ExpiredToken(t *testing.T) {
	s := newTestServer()

	code, body := s.do(t, http.MethodGet, "/api/tasks", "expired-token", "")
	if code != http.StatusUnauthorized || body["message"] != "Invalid or expired token" {
		t.Fatalf("unexpected response %d %v", code, body)
	}
}

func TestRouter_AdminOnlyRoutesRejectOtherRoles(t *testing.T) {
	s := newTestServer()
	admin := []struct{ method, path, body string }{
		{http.MethodGet, "/api/admin/dashboard", ""},
		{http.MethodGet, "/api/admin/users", ""},
		{http.MethodPost, "/api/admin/users", `{"name":"Boss","email":"boss@x.com","role":"admin"}`},
		{http.MethodPatch, "/api/admin/users/u1/toggle-status", ""},
		{http.MethodGet, "/api/admin/analytics", ""},
		{http.MethodDelete, "/api/leads/l1", ""},
	}
	for _, token := range []string{"manager-token", "user-token"} {
		for _, r := range admin {
			code, body := s.do(t, r.method, r.path, token, r.body)
			if code != http.StatusForbidden || body["message"] != "Access denied" {
				t.Fatalf("%s %s as %s: expected 403 Access denied, got %d %v", r.method, r.path, token, code, body)
			}
		}
	}
	if s.users.listed || s.leads.deleted {
		t.Fatalf("admin handlers must not run for non-admins")
	}
}

func TestRouter_AdminAllowed(t *testing.T) {
	s := newTestServer()

	code, body := s.do(t, http.MethodGet, "/api/admin/users", "admin-token", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	code, _ = s.do(t, http.MethodDelete, "/api/leads/l1", "admin-token", "")
	if code != http.StatusOK || !s.leads.deleted {
		t.Fatalf("admin should delete leads, got %d", code)
	}
}

func TestRouter_ErrorEnvelope(t *testing.T) {
	s := newTestServer()

	code, body := s.do(t, http.MethodGet, "/api/leads/not-an-id", "user-token", "")
	if code != http.StatusBadRequest || body["message"] != "Invalid ID" {
		t.Fatalf("malformed id: unexpected %d %v", code, body)
	}

	code, body = s.do(t, http.MethodPatch, "/api/tasks/t9/toggle", "manager-token", "")
	if code != http.StatusNotFound || body["message"] != "Task not found" {
		t.Fatalf("foreign task: unexpected %d %v", code, body)
	}

	code, body = s.do(t, http.MethodPost, "/api/leads", "user-token", `{"name":"Acme","assignedTo":"ghost"}`)
	if code != http.StatusBadRequest || body["message"] != "Validation failed" {
		t.Fatalf("validation: unexpected %d %v", code, body)
	}
	errs := body["errors"].([]any)
	if errs[0].(map[string]any)["field"] != "assignedTo" {
		t.Fatalf("unexpected field errors %v", errs)
	}

	code, body = s.do(t, http.MethodPost, "/auth/login", "", `{"email":"a@x.com","password":"secret1"}`)
	if code != http.StatusUnauthorized || body["message"] != "Invalid credentials" {
		t.Fatalf("login: unexpected %d %v", code, body)
	}

	code, body = s.do(t, http.MethodPost, "/auth/register", "", `{"name":"Alice","email":"a@x.com","password":"secret1"}`)
	if code != http.StatusConflict || body["message"] != "User already exists" {
		t.Fatalf("register: unexpected %d %v", code, body)
	}
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer()
	s.do(t, http.MethodGet, "/health", "", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "crm_requests_total") {
		t.Fatalf("expected request counter in exposition")
	}
}
