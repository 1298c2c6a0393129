package session

import (
	"context"
	"testing"
	"time"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/domain/fault"
	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupModule starts a session module over an in-memory store.
func setupModule(t *testing.T) (*SessionModule, *storage.Gateway) {
	t.Helper()

	kv, err := storage.OpenSQLite(":memory:", false)
	require.NoError(t, err)
	plugin := storage.NewPluginModuleWithKV(kv, "")
	t.Cleanup(func() { _ = plugin.Stop(context.Background()) })

	m := NewModule(config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour})
	m.SetPlugin("storage", plugin)
	require.NoError(t, m.Start(context.Background()))
	return m, plugin.Port()
}

func TestSessionModule_StartRequiresStorage(t *testing.T) {
	m := NewModule(config.Config{})
	assert.Error(t, m.Start(context.Background()))
}

func TestSessionModule_LoginFlow(t *testing.T) {
	ctx := context.Background()
	m, _ := setupModule(t)

	resp, err := m.login(ctx, LoginRequest{Username: " dana "}, nil)
	require.NoError(t, err)
	require.NoError(t, resp.Err())
	assert.Equal(t, "dana", resp.User.Username)
	assert.NotEmpty(t, resp.Token)

	current, err := m.currentSession(ctx, CurrentSessionRequest{}, nil)
	require.NoError(t, err)
	assert.True(t, current.Authenticated)
	assert.Equal(t, "dana", current.User.Username)

	valid, err := m.validateToken(ctx, ValidateTokenRequest{Token: resp.Token}, nil)
	require.NoError(t, err)
	require.NoError(t, valid.Err())
	assert.Equal(t, current.SessionKey, valid.SessionKey)

	out, err := m.logout(ctx, LogoutRequest{}, nil)
	require.NoError(t, err)
	assert.True(t, out.LoggedOut)
	assert.Equal(t, "dana", out.Username)

	after, err := m.validateToken(ctx, ValidateTokenRequest{Token: resp.Token}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, after.Err(), user.ErrUnauthenticated)
}

func TestSessionModule_LoginBlankUsername(t *testing.T) {
	m, _ := setupModule(t)

	resp, err := m.login(context.Background(), LoginRequest{Username: "  "}, nil)
	require.NoError(t, err)
	assert.Equal(t, fault.CodeInvalidUsername, resp.Code)
	assert.ErrorIs(t, resp.Err(), user.ErrInvalidUsername)
}

func TestSessionModule_TokenFromEarlierLoginRejected(t *testing.T) {
	ctx := context.Background()
	m, _ := setupModule(t)

	first, err := m.login(ctx, LoginRequest{Username: "erin"}, nil)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = m.login(ctx, LoginRequest{Username: "erin"}, nil)
	require.NoError(t, err)

	resp, err := m.validateToken(ctx, ValidateTokenRequest{Token: first.Token}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, resp.Err(), user.ErrInvalidToken)
}

func TestSessionModule_Preferences(t *testing.T) {
	ctx := context.Background()
	m, g := setupModule(t)

	prefs, err := m.getPreferences(ctx, GetPreferencesRequest{}, nil)
	require.NoError(t, err)
	assert.False(t, prefs.DarkMode)

	prefs, err = m.setPreferences(ctx, SetPreferencesRequest{DarkMode: true}, nil)
	require.NoError(t, err)
	assert.True(t, prefs.DarkMode)

	stored, err := g.DarkMode(ctx)
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestSessionModule_RestoresPersistedUser(t *testing.T) {
	ctx := context.Background()
	kv, err := storage.OpenSQLite(":memory:", false)
	require.NoError(t, err)
	plugin := storage.NewPluginModuleWithKV(kv, "")
	defer plugin.Stop(ctx)
	require.NoError(t, plugin.Port().SaveUser(ctx, user.User{Username: "frank", LoginTime: time.Now()}))

	m := NewModule(config.Config{JWTSecret: "s"})
	m.SetPlugin("storage", plugin)
	require.NoError(t, m.Start(ctx))

	current, err := m.currentSession(ctx, CurrentSessionRequest{}, nil)
	require.NoError(t, err)
	assert.True(t, current.Authenticated)
	assert.True(t, m.Health(ctx).Healthy)
}
