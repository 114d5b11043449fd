package domain

import "time"

// AuthAction identifies what happened in an audit event.
type AuthAction string

const (
	ActionSignup  AuthAction = "signup"
	ActionLogin   AuthAction = "login"
	ActionRefresh AuthAction = "refresh"
	ActionLogout  AuthAction = "logout"
)

// AuthEvent is an audit record emitted for every authentication operation.
// Events are enqueued by the auth service and persisted asynchronously.
type AuthEvent struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Action    AuthAction `json:"action"`
	RemoteIP  string     `json:"remote_ip,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
