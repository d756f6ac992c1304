package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/relaycrm/crm-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders {"message": "...", "errors": [...]}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

var sentinelStatus = []struct {
	err  error
	code int
	msg  string
}{
	{domain.ErrInvalidID, http.StatusBadRequest, "Invalid ID"},
	{domain.ErrCannotDeactivateAdmin, http.StatusBadRequest, "Cannot deactivate admin"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{domain.ErrUserNotAuthorized, http.StatusUnauthorized, "User not authorized"},
	{domain.ErrAccountDeactivated, http.StatusForbidden, "Account is Deactivated"},
	{domain.ErrAdminRoleRequired, http.StatusForbidden, "Only admins can create admin users"},
	{domain.ErrForbidden, http.StatusForbidden, "Access denied"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrLeadNotFound, http.StatusNotFound, "Lead not found"},
	{domain.ErrTaskNotFound, http.StatusNotFound, "Task not found"},
	{domain.ErrEmailTaken, http.StatusConflict, "User already exists"},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, errorResponse{Message: "Validation failed", Errors: verr.Fields}
	}

	// Echo's own errors (bind failures, 404 from router, auth gates).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("http error")
			return he.Code, errorResponse{Message: "Server error"}
		}
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			return s.code, errorResponse{Message: s.msg}
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Message: "Server error"}
}
