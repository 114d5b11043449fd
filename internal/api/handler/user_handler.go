package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/steambuds/portal/internal/core/domain"
	"github.com/steambuds/portal/internal/core/ports"
)

type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

type userResponse struct {
	ID       string         `json:"id"`
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Roles    []domain.Role  `json:"roles"`
	Profile  map[string]any `json:"profile,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	roles := u.Roles
	if roles == nil {
		roles = []domain.Role{}
	}
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Roles:    roles,
		Profile:  u.Profile,
	}
}

// GetUser returns the full record (roles included) for a user. A user may
// fetch their own record; admins may fetch anyone's.
//
// @Summary      Fetch a user record
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	requesterID, roles, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.GetUser(c.Request().Context(), requesterID, roles, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// GetProfile returns only the loosely-typed profile attribute bag for a user.
//
// @Summary      Fetch a user profile
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /profiles/{id} [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	requesterID, roles, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.GetUser(c.Request().Context(), requesterID, roles, c.Param("id"))
	if err != nil {
		return err
	}

	profile := user.Profile
	if profile == nil {
		profile = map[string]any{}
	}
	return c.JSON(http.StatusOK, profile)
}

// ListUsers returns recent user records. Admin only (enforced by RBAC
// middleware on the route).
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}  userResponse
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context(), 100)
	if err != nil {
		return err
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, out)
}
