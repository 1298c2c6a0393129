package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/example/task-tracker/config"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// PluginModule owns the key-value store and exposes the Gateway to modules.
// Plugins start first and stop last.
type PluginModule struct {
	container types.ServiceContainer
	cfg       config.Config
	kv        KV
	gateway   *Gateway
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates a storage plugin for cfg.
func NewPluginModule(cfg config.Config) *PluginModule {
	return &PluginModule{cfg: cfg}
}

// NewPluginModuleWithKV creates a storage plugin around an already open store.
func NewPluginModuleWithKV(kv KV, prefix string) *PluginModule {
	return &PluginModule{
		cfg:     config.Config{KeyPrefix: prefix},
		kv:      kv,
		gateway: NewGateway(kv, prefix),
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "storage"
}

// Start opens the configured backend.
func (m *PluginModule) Start(ctx context.Context) error {
	if m.kv == nil {
		kv, err := Open(ctx, m.cfg)
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		m.kv = kv
		m.gateway = NewGateway(kv, m.cfg.KeyPrefix)
	}
	log.Printf("[storage] Plugin started (%s)", describe(m.cfg))
	return nil
}

// Stop closes the backend.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.kv != nil {
		if err := m.kv.Close(); err != nil {
			log.Printf("[storage] Error closing store: %v", err)
			return fmt.Errorf("failed to close store: %w", err)
		}
	}
	log.Println("[storage] Plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Port returns the gateway. It is nil until Start has run unless the plugin
// was built with NewPluginModuleWithKV.
func (m *PluginModule) Port() *Gateway {
	return m.gateway
}

// Health checks the store with a read of a key that never exists.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.kv == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "storage not initialized",
		}
	}

	if _, err := m.kv.GetWithContext(ctx, "__health_check__"); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("health check failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": m.cfg.StorageDriver,
			"prefix": m.cfg.KeyPrefix,
		},
	}
}
