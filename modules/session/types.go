package session

import (
	"context"
	"time"

	"github.com/example/task-tracker/domain/fault"
	"github.com/example/task-tracker/domain/user"
)

// LoginRequest is the request for signing in.
type LoginRequest struct {
	Username string `json:"username"`
}

// LoginResponse is the response for signing in.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	fault.Fault
}

// LogoutRequest is the request for signing out.
type LogoutRequest struct{}

// LogoutResponse is the response for signing out.
type LogoutResponse struct {
	LoggedOut bool   `json:"logged_out"`
	Username  string `json:"username,omitempty"`
}

// CurrentSessionRequest is the request for the current session.
type CurrentSessionRequest struct{}

// ValidateTokenRequest is the request for checking a session token.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// SessionResponse describes the current session.
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
	SessionKey    string        `json:"session_key,omitempty"`
	fault.Fault
}

// UserResponse is the wire form of a signed-in user.
type UserResponse struct {
	Username  string    `json:"username"`
	LoginTime time.Time `json:"login_time"`
}

// GetPreferencesRequest is the request for reading preferences.
type GetPreferencesRequest struct{}

// SetPreferencesRequest is the request for changing preferences.
type SetPreferencesRequest struct {
	DarkMode bool `json:"dark_mode"`
}

// PreferencesResponse holds the display preferences.
type PreferencesResponse struct {
	DarkMode bool `json:"dark_mode"`
}

// SessionPort defines session operations for other modules.
type SessionPort interface {
	Login(ctx context.Context, username string) (*LoginResponse, error)
	Logout(ctx context.Context) (*LogoutResponse, error)
	CurrentSession(ctx context.Context) (*SessionResponse, error)
	ValidateToken(ctx context.Context, token string) (*SessionResponse, error)
	GetPreferences(ctx context.Context) (*PreferencesResponse, error)
	SetPreferences(ctx context.Context, darkMode bool) (*PreferencesResponse, error)
}

func toUserResponse(u user.User) UserResponse {
	return UserResponse{Username: u.Username, LoginTime: u.LoginTime}
}

func toSessionResponse(u user.User) SessionResponse {
	resp := toUserResponse(u)
	return SessionResponse{
		Authenticated: true,
		User:          &resp,
		SessionKey:    u.SessionKey(),
	}
}
