package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/steambuds/portal/internal/api/handler"
	"github.com/steambuds/portal/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return rec.Code, resp
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"refresh token invalid", domain.ErrRefreshTokenInvalid, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"user exists", domain.ErrUserExists, http.StatusConflict},
		{"password policy", domain.ErrPasswordPolicy, http.StatusBadRequest},
		{"wrapped", errors.Join(errors.New("ctx"), domain.ErrForbidden), http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, resp := renderError(t, tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
			if resp.Error == "" {
				t.Fatalf("expected an error message in the envelope")
			}
		})
	}
}

func TestErrorHandler_ValidationDetails(t *testing.T) {
	code, resp := renderError(t, &handler.ValidationError{
		Details: []string{"email is required", "password must be at least 8 characters"},
	})

	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if resp.Error != "validation failed" {
		t.Fatalf("unexpected message: %q", resp.Error)
	}
	if len(resp.Details) != 2 {
		t.Fatalf("details not rendered: %+v", resp.Details)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, resp := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))

	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if resp.Error != "invalid payload" {
		t.Fatalf("unexpected message: %q", resp.Error)
	}
}

func TestErrorHandler_UnknownErrorIsOpaque(t *testing.T) {
	code, resp := renderError(t, errors.New("mongo: connection reset"))

	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if resp.Error != "internal server error" {
		t.Fatalf("internal detail leaked: %q", resp.Error)
	}
}
