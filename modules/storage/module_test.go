package storage

import (
	"context"
	"testing"

	"github.com/example/task-tracker/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluginModule_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewPluginModule(config.Config{StorageDriver: config.DriverSQLite, DBPath: ":memory:"})

	assert.Equal(t, "storage", m.Name())
	assert.Nil(t, m.Port())
	assert.False(t, m.Health(ctx).Healthy)

	require.NoError(t, m.Start(ctx))
	require.NotNil(t, m.Port())

	health := m.Health(ctx)
	assert.True(t, health.Healthy)
	assert.Equal(t, "sqlite", health.Details["driver"])

	require.NoError(t, m.Port().SetDarkMode(ctx, true))
	assert.NoError(t, m.Stop(ctx))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.Config{StorageDriver: "floppy"})
	assert.Error(t, err)
}
