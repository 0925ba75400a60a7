package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailhub/user-service/internal/core/ports"
)

// AdminHandler exposes account administration. Routes using it sit
// behind the RBAC middleware with the admin role.
type AdminHandler struct {
	users ports.UserService
}

func NewAdminHandler(users ports.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

// GetUser returns any user by id.
//
// @Summary      Get a user by id
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	user, err := h.users.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Deactivate flags an account inactive. Deactivated users cannot log in
// or refresh tokens; records are never deleted.
//
// @Summary      Deactivate a user account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/users/{id}/deactivate [post]
func (h *AdminHandler) Deactivate(c echo.Context) error {
	user, err := h.users.Deactivate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
