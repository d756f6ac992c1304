package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/relaycrm/crm-api/internal/api/metrics"
	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

const (
	msgTokenMissing      = "Not Authorized, Token is Missing"
	msgTokenInvalid      = "Invalid or expired token"
	msgUserNotAuthorized = "User not authorized"
)

// Authenticate requires a valid bearer token belonging to an active user and
// attaches that user to the context. Store failures other than a missing
// user propagate to the error handler as 500s.
func Authenticate(auth ports.AuthService, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenMissing)
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			switch {
			case err == nil:
			case domain.IsTokenError(err):
				metrics.AuthRejectionsTotal.WithLabelValues(tokenReason(err)).Inc()
				log.Debug().Err(err).Str("path", c.Path()).Msg("bearer token rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenInvalid)
			case errors.Is(err, domain.ErrUserNotAuthorized):
				metrics.AuthRejectionsTotal.WithLabelValues("user_not_authorized").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, msgUserNotAuthorized)
			default:
				return err
			}

			SetIdentity(c, user)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func tokenReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "token_malformed"
	default:
		return "token_signature"
	}
}
