package session

import "context"

// UserRecord is the cached identity behind a session. Profile is a
// loosely-typed attribute bag the manager treats as opaque.
type UserRecord struct {
	ID       string         `json:"id"`
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Roles    []Role         `json:"roles"`
	Profile  map[string]any `json:"profile,omitempty"`
}

// UserSummary is what registration returns. Signup deliberately does not
// establish a session.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is the in-memory record of an authenticated identity. A nil
// *Session means anonymous.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *UserRecord
}

// DefaultRoute returns the dashboard route for the session's roles.
func (s *Session) DefaultRoute() string {
	if s == nil || s.User == nil {
		return RouteGuardianDashboard
	}
	return DefaultRoute(s.User.Roles)
}

// API is the auth service surface the Manager consumes. Client is the HTTP
// implementation; tests substitute a fake.
type API interface {
	// Signup registers a new account. POST /user.
	Signup(ctx context.Context, username, email, password string) (*UserSummary, error)
	// Login exchanges credentials for an access/refresh token pair. POST /login.
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	// Refresh mints a new access token; the refresh token is not rotated. POST /refresh.
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	// Logout invalidates the refresh token server-side. DELETE /logout.
	Logout(ctx context.Context, refreshToken string) error
	// FetchUser returns the full record (roles included) for a user. GET /users/{id}.
	FetchUser(ctx context.Context, id, accessToken string) (*UserRecord, error)
	// FetchProfile returns the profile attribute bag for a user. GET /profiles/{id}.
	FetchProfile(ctx context.Context, id, accessToken string) (map[string]any, error)
}
