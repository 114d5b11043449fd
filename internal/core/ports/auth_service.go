package ports

import (
	"context"

	"github.com/steambuds/portal/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	// Login returns an access token and a refresh token on success.
	Login(ctx context.Context, email, password string) (string, string, *domain.User, error)
	// Refresh exchanges a refresh token for a new access token. The refresh
	// token itself is not rotated.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Logout invalidates a refresh token. Idempotent.
	Logout(ctx context.Context, refreshToken string) error
	// GetUser returns the record for id, enforcing that the requester is
	// either the same user or an admin.
	GetUser(ctx context.Context, requesterID string, requesterRoles []domain.Role, id string) (*domain.User, error)
	ListUsers(ctx context.Context, limit int64) ([]*domain.User, error)
}
