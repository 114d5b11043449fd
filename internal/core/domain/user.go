package domain

import (
	"errors"
	"time"
)

// Role tags a user account and determines which dashboard it lands on.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleSchoolAdmin Role = "school_admin"
	RoleSystemUser  Role = "system_user"
	RoleInstructor  Role = "instructor"
	RoleFacilitator Role = "facilitator"
	RoleStudent     Role = "student"
	RoleGuardian    Role = "guardian"
)

// KnownRoles lists every role the backend will accept on a user record.
var KnownRoles = []Role{
	RoleAdmin, RoleSchoolAdmin, RoleSystemUser,
	RoleInstructor, RoleFacilitator, RoleStudent, RoleGuardian,
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	for _, k := range KnownRoles {
		if r == k {
			return true
		}
	}
	return false
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrRefreshTokenInvalid = errors.New("refresh token invalid or expired")
var ErrForbidden = errors.New("access forbidden")
var ErrPasswordPolicy = errors.New("password must be at least 8 characters")

// User models an account held by the auth service.
type User struct {
	ID           string         `json:"id"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	Roles        []Role         `json:"roles"`
	Profile      map[string]any `json:"profile,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}
