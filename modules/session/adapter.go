package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// sessionAdapter wraps ServiceContainer for type-safe cross-module communication.
type sessionAdapter struct {
	container mono.ServiceContainer
}

// NewSessionAdapter creates a SessionPort backed by the session module's services.
func NewSessionAdapter(container mono.ServiceContainer) SessionPort {
	if container == nil {
		panic("session adapter requires non-nil ServiceContainer")
	}
	return &sessionAdapter{container: container}
}

// callService invokes a request-reply service and decodes its response.
func callService[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}

// Login signs in via the login service.
func (a *sessionAdapter) Login(ctx context.Context, username string) (*LoginResponse, error) {
	req := LoginRequest{Username: username}
	var resp LoginResponse
	if err := callService(ctx, a.container, "login", &req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout signs out via the logout service.
func (a *sessionAdapter) Logout(ctx context.Context) (*LogoutResponse, error) {
	var resp LogoutResponse
	if err := callService(ctx, a.container, "logout", &LogoutRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CurrentSession returns the current session via the current-session service.
func (a *sessionAdapter) CurrentSession(ctx context.Context) (*SessionResponse, error) {
	var resp SessionResponse
	if err := callService(ctx, a.container, "current-session", &CurrentSessionRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateToken checks a token via the validate-token service.
func (a *sessionAdapter) ValidateToken(ctx context.Context, token string) (*SessionResponse, error) {
	req := ValidateTokenRequest{Token: token}
	var resp SessionResponse
	if err := callService(ctx, a.container, "validate-token", &req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPreferences reads preferences via the get-preferences service.
func (a *sessionAdapter) GetPreferences(ctx context.Context) (*PreferencesResponse, error) {
	var resp PreferencesResponse
	if err := callService(ctx, a.container, "get-preferences", &GetPreferencesRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetPreferences stores preferences via the set-preferences service.
func (a *sessionAdapter) SetPreferences(ctx context.Context, darkMode bool) (*PreferencesResponse, error) {
	req := SetPreferencesRequest{DarkMode: darkMode}
	var resp PreferencesResponse
	if err := callService(ctx, a.container, "set-preferences", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
