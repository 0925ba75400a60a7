package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailhub/user-service/internal/core/domain"
)

// ctxIdentity extracts the caller identity injected by the Auth
// middleware and performs a fast-fail check before any service call: a
// missing user id means the middleware did not run on this route, so
// reject rather than proceed anonymously.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)

	return domain.Identity{UserID: userID, Email: email, Role: role}, nil
}
