package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/steambuds/portal/internal/core/domain"
)

func runRBAC(t *testing.T, userRoles []domain.Role, allowed ...domain.Role) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userRoles != nil {
		c.Set("roles", userRoles)
	}

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	if err := RBAC(allowed...)(next)(c); err != nil {
		t.Fatalf("rbac: %v", err)
	}
	return rec
}

func TestRBAC(t *testing.T) {
	cases := []struct {
		name    string
		roles   []domain.Role
		allowed []domain.Role
		code    int
	}{
		{
			name:    "allowed role passes",
			roles:   []domain.Role{domain.RoleAdmin},
			allowed: []domain.Role{domain.RoleAdmin},
			code:    http.StatusOK,
		},
		{
			name:    "any of several roles passes",
			roles:   []domain.Role{domain.RoleStudent, domain.RoleFacilitator},
			allowed: []domain.Role{domain.RoleInstructor, domain.RoleFacilitator},
			code:    http.StatusOK,
		},
		{
			name:    "disallowed role is rejected",
			roles:   []domain.Role{domain.RoleStudent},
			allowed: []domain.Role{domain.RoleAdmin},
			code:    http.StatusForbidden,
		},
		{
			name:    "no roles in context is rejected",
			roles:   nil,
			allowed: []domain.Role{domain.RoleAdmin},
			code:    http.StatusForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := runRBAC(t, tc.roles, tc.allowed...)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
		})
	}
}
