package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/events"
	"github.com/example/task-tracker/modules/storage"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// PreferenceStore persists display preferences.
type PreferenceStore interface {
	DarkMode(ctx context.Context) (bool, error)
	SetDarkMode(ctx context.Context, enabled bool) error
}

// SessionModule owns the signed-in user and the display preferences.
type SessionModule struct {
	cfg           config.Config
	storagePlugin *storage.PluginModule
	controller    *Controller
	tokens        *TokenManager
	prefs         PreferenceStore
	eventBus      mono.EventBus
}

var _ mono.Module = (*SessionModule)(nil)
var _ mono.ServiceProviderModule = (*SessionModule)(nil)
var _ mono.UsePluginModule = (*SessionModule)(nil)
var _ mono.EventEmitterModule = (*SessionModule)(nil)
var _ mono.HealthCheckableModule = (*SessionModule)(nil)

func NewModule(cfg config.Config) *SessionModule {
	return &SessionModule{
		cfg: cfg,
		tokens: NewTokenManager(TokenConfig{
			Secret: cfg.JWTSecret,
			TTL:    cfg.TokenTTL,
		}),
	}
}

func (m *SessionModule) Name() string {
	return "session"
}

// SetPlugin receives the storage plugin. The gateway is resolved in Start
// because plugins open their stores when they start.
func (m *SessionModule) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias == "storage" {
		if p, ok := plugin.(*storage.PluginModule); ok {
			m.storagePlugin = p
			log.Println("[session] Storage plugin injected")
		}
	}
}

func (m *SessionModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *SessionModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.SessionStartedV1.ToBase(),
		events.SessionEndedV1.ToBase(),
	}
}

func (m *SessionModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.login,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "logout", json.Unmarshal, json.Marshal, m.logout,
	); err != nil {
		return fmt.Errorf("failed to register logout service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "current-session", json.Unmarshal, json.Marshal, m.currentSession,
	); err != nil {
		return fmt.Errorf("failed to register current-session service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "validate-token", json.Unmarshal, json.Marshal, m.validateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-preferences", json.Unmarshal, json.Marshal, m.getPreferences,
	); err != nil {
		return fmt.Errorf("failed to register get-preferences service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "set-preferences", json.Unmarshal, json.Marshal, m.setPreferences,
	); err != nil {
		return fmt.Errorf("failed to register set-preferences service: %w", err)
	}

	log.Printf("[session] Registered services: login, logout, current-session, validate-token, get-preferences, set-preferences")
	return nil
}

func (m *SessionModule) Start(ctx context.Context) error {
	if m.storagePlugin == nil || m.storagePlugin.Port() == nil {
		return fmt.Errorf("storage plugin not set - ensure 'storage' plugin is registered")
	}
	gateway := m.storagePlugin.Port()

	m.prefs = gateway
	m.controller = NewController(gateway, NewDelayAuthenticator(m.cfg.LoginDelay))
	if err := m.controller.Restore(ctx); err != nil {
		return err
	}

	if u, ok := m.controller.Current(); ok {
		log.Printf("[session] Module started (restored session for %s)", u.Username)
	} else {
		log.Println("[session] Module started (no active session)")
	}
	return nil
}

func (m *SessionModule) Stop(_ context.Context) error {
	log.Println("[session] Module stopped")
	return nil
}

// Health reports whether a user is signed in.
func (m *SessionModule) Health(_ context.Context) mono.HealthStatus {
	if m.controller == nil {
		return mono.HealthStatus{Healthy: false, Message: "not started"}
	}
	_, signedIn := m.controller.Current()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"signed_in": signedIn,
		},
	}
}
