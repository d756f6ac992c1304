package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/relaycrm/crm-api/internal/api/metrics"
	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

// AdminHandler serves the admin-only user management and analytics routes.
type AdminHandler struct {
	users     ports.UserService
	analytics ports.AnalyticsService
}

func NewAdminHandler(users ports.UserService, analytics ports.AnalyticsService) *AdminHandler {
	return &AdminHandler{users: users, analytics: analytics}
}

// Dashboard greets the admin.
//
// @Summary      Admin dashboard
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{Message: "Welcome Admin", Admin: toUserResponse(admin)})
}

// CreateUser provisions an account and returns its temporary password once.
// The response must only travel over HTTPS.
//
// @Summary      Create user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  createUserResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	created, err := h.users.CreateUser(c.Request().Context(), admin, ports.CreateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Role:       domain.Role(req.Role),
		Department: domain.Department(req.Department),
	})
	if err != nil {
		return err
	}
	metrics.UsersCreatedTotal.WithLabelValues(string(created.User.Role)).Inc()

	return c.JSON(http.StatusCreated, createUserResponse{
		Message:           "User created successfully",
		User:              toUserResponse(created.User),
		TemporaryPassword: created.TemporaryPassword,
	})
}

// ListUsers returns every account, newest first.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listUsersResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, listUsersResponse{Users: out})
}

// ToggleUserStatus activates or deactivates a non-admin account.
//
// @Summary      Toggle user status
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userEnvelope
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id}/toggle-status [patch]
func (h *AdminHandler) ToggleUserStatus(c echo.Context) error {
	user, err := h.users.ToggleStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	msg := "User deactivated"
	if user.IsActive {
		msg = "User activated"
	}
	return c.JSON(http.StatusOK, userEnvelope{Message: msg, User: toUserResponse(user)})
}

// Analytics returns lead and task totals.
//
// @Summary      Analytics summary
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Analytics
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/analytics [get]
func (h *AdminHandler) Analytics(c echo.Context) error {
	summary, err := h.analytics.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
