package ports

import (
	"context"
	"time"
)

// RefreshTokenStore is the registry of live refresh tokens. A token present in
// the store is valid; deleting it is the server-side logout.
type RefreshTokenStore interface {
	// Save registers token for userID, expiring after ttl.
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	// Lookup returns the user id a token was issued to, or
	// domain.ErrRefreshTokenInvalid if the token is unknown or expired.
	Lookup(ctx context.Context, token string) (string, error)
	// Delete removes a token. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
