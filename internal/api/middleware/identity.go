package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/relaycrm/crm-api/internal/core/domain"
)

const identityKey = "identity"

// SetIdentity attaches the authenticated user to the request context.
func SetIdentity(c echo.Context, user *domain.User) {
	c.Set(identityKey, user)
}

// Identity returns the user attached by Authenticate, if any.
func Identity(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(identityKey).(*domain.User)
	return u, ok && u != nil
}
