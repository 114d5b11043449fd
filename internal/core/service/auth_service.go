package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/steambuds/portal/internal/core/domain"
	"github.com/steambuds/portal/internal/core/ports"
)

const minPasswordLen = 8

// AuthService implements registration, login and the refresh-token lifecycle.
type AuthService struct {
	users      ports.UserRepository
	refresh    ports.RefreshTokenStore
	events     ports.EventSink
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewAuthService(users ports.UserRepository, refresh ports.RefreshTokenStore, events ports.EventSink, jwtSecret string, accessTTL, refreshTTL time.Duration) *AuthService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		refresh:    refresh,
		events:     events,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Register creates a new account. Registration does not establish a session;
// new accounts start with the system_user role only.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if len(password) < minPasswordLen {
		return nil, domain.ErrPasswordPolicy
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []domain.Role{domain.RoleSystemUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.record(created.ID, domain.ActionSignup)
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, string, *domain.User, error) {
	if email == "" || password == "" {
		return "", "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return "", "", nil, domain.ErrInvalidCredentials
		}
		return "", "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", "", nil, domain.ErrInvalidCredentials
	}

	access, err := s.mintAccessToken(user)
	if err != nil {
		return "", "", nil, err
	}

	refreshToken := uuid.NewString()
	if err := s.refresh.Save(ctx, refreshToken, user.ID, s.refreshTTL); err != nil {
		return "", "", nil, err
	}

	s.record(user.ID, domain.ActionLogin)
	return access, refreshToken, user, nil
}

// Refresh mints a new access token for the holder of a live refresh token.
// The refresh token is not rotated: the same token stays registered until it
// expires or is logged out.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domain.ErrRefreshTokenInvalid
	}

	userID, err := s.refresh.Lookup(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			// account deleted since the token was issued; kill the token too
			_ = s.refresh.Delete(ctx, refreshToken)
			return "", domain.ErrRefreshTokenInvalid
		}
		return "", err
	}

	access, err := s.mintAccessToken(user)
	if err != nil {
		return "", err
	}

	s.record(user.ID, domain.ActionRefresh)
	return access, nil
}

// Logout invalidates a refresh token server-side. Unknown tokens are treated
// as already logged out.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	userID, err := s.refresh.Lookup(ctx, refreshToken)
	if err == nil {
		s.record(userID, domain.ActionLogout)
	}
	return s.refresh.Delete(ctx, refreshToken)
}

func (s *AuthService) GetUser(ctx context.Context, requesterID string, requesterRoles []domain.Role, id string) (*domain.User, error) {
	if requesterID != id && !hasRole(requesterRoles, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	return s.users.FindByID(ctx, id)
}

func (s *AuthService) ListUsers(ctx context.Context, limit int64) ([]*domain.User, error) {
	return s.users.List(ctx, limit)
}

func (s *AuthService) mintAccessToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.accessTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) record(userID string, action domain.AuthAction) {
	if s.events == nil {
		return
	}
	s.events.Record(domain.AuthEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		CreatedAt: s.now().UTC(),
	})
}

func hasRole(roles []domain.Role, want domain.Role) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}
