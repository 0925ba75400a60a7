package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailhub/user-service/internal/api/metrics"
	"github.com/retailhub/user-service/internal/core/auth"
	"github.com/retailhub/user-service/internal/core/domain"
)

// Auth validates the bearer token through the guard and injects the
// caller identity into the request context. Expired tokens get their own
// 401 message so clients know to refresh; every other failure is a
// generic 401.
func Auth(guard *auth.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			id, err := guard.Authenticate(header)
			if err != nil {
				metrics.TokenValidationFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				if errors.Is(err, domain.ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("user_id", id.UserID)
			c.Set("email", id.Email)
			c.Set("role", id.Role)

			return next(c)
		}
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignature):
		return "signature"
	case errors.Is(err, domain.ErrTokenWrongKind):
		return "wrong_kind"
	default:
		return "malformed"
	}
}
