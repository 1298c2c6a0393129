package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T) *storage.Gateway {
	t.Helper()
	kv, err := storage.OpenSQLite(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return storage.NewGateway(kv, "")
}

func fixedAuth(at time.Time) *DelayAuthenticator {
	return &DelayAuthenticator{Now: func() time.Time { return at }}
}

func TestController_LoginLogout(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)
	at := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	c := NewController(g, fixedAuth(at))

	_, ok := c.Current()
	assert.False(t, ok)
	_, err := c.Require()
	assert.ErrorIs(t, err, user.ErrUnauthenticated)

	u, err := c.Login(ctx, "  alice  ")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.True(t, at.Equal(u.LoginTime))

	stored, err := g.LoadUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "alice", stored.Username)

	ended, err := c.Logout(ctx)
	require.NoError(t, err)
	require.NotNil(t, ended)
	assert.Equal(t, "alice", ended.Username)

	_, ok = c.Current()
	assert.False(t, ok)
	stored, err = g.LoadUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)

	ended, err = c.Logout(ctx)
	require.NoError(t, err)
	assert.Nil(t, ended)
}

func TestController_LoginRejectsBlankUsername(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)
	c := NewController(g, NewDelayAuthenticator(time.Hour))

	start := time.Now()
	_, err := c.Login(ctx, "   ")
	assert.ErrorIs(t, err, user.ErrInvalidUsername)
	assert.Less(t, time.Since(start), time.Second, "blank usernames must be rejected before the delay")

	_, ok := c.Current()
	assert.False(t, ok)
}

func TestController_ReloginReplacesUser(t *testing.T) {
	ctx := context.Background()
	c := NewController(newTestGateway(t), NewDelayAuthenticator(0))

	_, err := c.Login(ctx, "alice")
	require.NoError(t, err)
	_, err = c.Login(ctx, "bob")
	require.NoError(t, err)

	u, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "bob", u.Username)
}

func TestController_Restore(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)
	at := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, g.SaveUser(ctx, user.User{Username: "carol", LoginTime: at}))

	c := NewController(g, NewDelayAuthenticator(0))
	require.NoError(t, c.Restore(ctx))

	u, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "carol", u.Username)
	assert.True(t, at.Equal(u.LoginTime))
}

func TestController_RestoreIgnoresCorruptUser(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)
	require.NoError(t, g.SetString(ctx, storage.UserKey, "{broken"))

	c := NewController(g, NewDelayAuthenticator(0))
	require.NoError(t, c.Restore(ctx))

	_, ok := c.Current()
	assert.False(t, ok)
}

// stubUserStore fails saves with saveErr.
type stubUserStore struct {
	saveErr error
	loadErr error
}

func (s *stubUserStore) LoadUser(context.Context) (*user.User, error) { return nil, s.loadErr }
func (s *stubUserStore) SaveUser(context.Context, user.User) error    { return s.saveErr }
func (s *stubUserStore) ClearUser(context.Context) error              { return nil }

func TestController_LoginPersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	store := &stubUserStore{saveErr: errors.New("disk full")}
	c := NewController(store, NewDelayAuthenticator(0))

	_, err := c.Login(ctx, "alice")
	require.Error(t, err)

	_, ok := c.Current()
	assert.False(t, ok)
}

func TestController_RestoreReturnsStoreErrors(t *testing.T) {
	store := &stubUserStore{loadErr: errors.New("connection refused")}
	c := NewController(store, NewDelayAuthenticator(0))

	err := c.Restore(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, task.ErrStorageCorrupt)
}

func TestDelayAuthenticator_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDelayAuthenticator(time.Minute).Authenticate(ctx, "alice")
	assert.ErrorIs(t, err, context.Canceled)
}
