package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/steambuds/portal/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. A missing
// user_id means the middleware did not run; reject rather than guess.
func ctxIdentity(c echo.Context) (userID string, roles []domain.Role, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	roles, _ = c.Get("roles").([]domain.Role)
	return userID, roles, nil
}
