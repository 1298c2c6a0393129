package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/task-tracker/domain/fault"
	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
)

// login handles the login service request.
func (m *SessionModule) login(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	u, err := m.controller.Login(ctx, req.Username)
	if err != nil {
		if f, ok := fault.From(err); ok {
			return LoginResponse{Fault: f}, nil
		}
		return LoginResponse{}, err
	}

	token, expiresAt, err := m.tokens.Issue(u)
	if err != nil {
		return LoginResponse{}, err
	}

	log.Printf("[session] User %s signed in", u.Username)

	if m.eventBus != nil {
		event := events.SessionStartedEvent{
			Username:  u.Username,
			LoginTime: u.LoginTime,
		}
		if err := events.SessionStartedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[session] Warning: failed to publish SessionStarted event for %s: %v", u.Username, err)
		}
	}

	return LoginResponse{
		User:      toUserResponse(u),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// logout handles the logout service request.
func (m *SessionModule) logout(ctx context.Context, _ LogoutRequest, _ *mono.Msg) (LogoutResponse, error) {
	ended, err := m.controller.Logout(ctx)
	if err != nil {
		return LogoutResponse{}, err
	}
	if ended == nil {
		return LogoutResponse{LoggedOut: false}, nil
	}

	log.Printf("[session] User %s signed out", ended.Username)

	if m.eventBus != nil {
		event := events.SessionEndedEvent{
			Username:   ended.Username,
			SessionKey: ended.SessionKey(),
			EndedAt:    time.Now(),
		}
		if err := events.SessionEndedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[session] Warning: failed to publish SessionEnded event for %s: %v", ended.Username, err)
		}
	}

	return LogoutResponse{LoggedOut: true, Username: ended.Username}, nil
}

// currentSession handles the current-session service request.
func (m *SessionModule) currentSession(_ context.Context, _ CurrentSessionRequest, _ *mono.Msg) (SessionResponse, error) {
	u, ok := m.controller.Current()
	if !ok {
		return SessionResponse{Authenticated: false}, nil
	}
	return toSessionResponse(u), nil
}

// validateToken handles the validate-token service request. A token is
// accepted only while the session it was issued for is still current.
func (m *SessionModule) validateToken(_ context.Context, req ValidateTokenRequest, _ *mono.Msg) (SessionResponse, error) {
	claims, err := m.tokens.Parse(req.Token)
	if err != nil {
		f, _ := fault.From(err)
		return SessionResponse{Fault: f}, nil
	}

	current, err := m.controller.Require()
	if err != nil {
		f, _ := fault.From(err)
		return SessionResponse{Fault: f}, nil
	}

	if claims.User().SessionKey() != current.SessionKey() {
		f, _ := fault.From(fmt.Errorf("%w: session has ended", user.ErrInvalidToken))
		return SessionResponse{Fault: f}, nil
	}

	return toSessionResponse(current), nil
}

// getPreferences handles the get-preferences service request.
func (m *SessionModule) getPreferences(ctx context.Context, _ GetPreferencesRequest, _ *mono.Msg) (PreferencesResponse, error) {
	dark, err := m.prefs.DarkMode(ctx)
	if err != nil {
		return PreferencesResponse{}, fmt.Errorf("failed to read preferences: %w", err)
	}
	return PreferencesResponse{DarkMode: dark}, nil
}

// setPreferences handles the set-preferences service request.
func (m *SessionModule) setPreferences(ctx context.Context, req SetPreferencesRequest, _ *mono.Msg) (PreferencesResponse, error) {
	if err := m.prefs.SetDarkMode(ctx, req.DarkMode); err != nil {
		return PreferencesResponse{}, fmt.Errorf("failed to save preferences: %w", err)
	}
	return PreferencesResponse{DarkMode: req.DarkMode}, nil
}
