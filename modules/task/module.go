package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/example/task-tracker/config"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/events"
	"github.com/example/task-tracker/modules/session"
	"github.com/example/task-tracker/modules/storage"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"golang.org/x/text/language"
)

// TaskModule provides task management services (core domain).
type TaskModule struct {
	cfg           config.Config
	storagePlugin *storage.PluginModule
	repo          *Repository
	views         *ViewCache
	sessionPort   session.SessionPort
	eventBus      mono.EventBus
	now           func() time.Time
}

var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.DependentModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.EventConsumerModule = (*TaskModule)(nil)
var _ mono.UsePluginModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

func NewModule(cfg config.Config) *TaskModule {
	lang, err := language.Parse(cfg.TitleLocale)
	if err != nil {
		log.Printf("[task] Warning: unknown title locale %q, using English", cfg.TitleLocale)
		lang = language.English
	}
	return &TaskModule{
		cfg:   cfg,
		views: NewViewCache(domain.NewPipeline(lang)),
		now:   time.Now,
	}
}

func (m *TaskModule) Name() string {
	return "task"
}

func (m *TaskModule) Dependencies() []string {
	return []string{"session"}
}

func (m *TaskModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "session" {
		m.sessionPort = session.NewSessionAdapter(container)
	}
}

// SetPlugin receives the storage plugin.
func (m *TaskModule) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias == "storage" {
		if p, ok := plugin.(*storage.PluginModule); ok {
			m.storagePlugin = p
			log.Println("[task] Storage plugin injected")
		}
	}
}

func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskToggledV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

func (m *TaskModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.SessionEndedV1, m.handleSessionEnded, m); err != nil {
		return fmt.Errorf("failed to register SessionEnded consumer: %w", err)
	}
	log.Printf("[task] Registered event consumers: SessionEnded")
	return nil
}

// handleSessionEnded drops the in-memory collection after logout. Events for
// a sign-in other than the one the collection was loaded for are ignored.
func (m *TaskModule) handleSessionEnded(_ context.Context, event events.SessionEndedEvent, _ *mono.Msg) error {
	if m.repo == nil {
		return nil
	}
	if m.repo.Discard(event.SessionKey) {
		log.Printf("[task] Session of %s ended, collection discarded", event.Username)
	} else {
		log.Printf("[task] Ignoring end of stale session for %s", event.Username)
	}
	return nil
}

func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "toggle-task", json.Unmarshal, json.Marshal, m.toggleTask,
	); err != nil {
		return fmt.Errorf("failed to register toggle-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "view-tasks", json.Unmarshal, json.Marshal, m.viewTasks,
	); err != nil {
		return fmt.Errorf("failed to register view-tasks service: %w", err)
	}

	log.Printf("[task] Registered services: create-task, get-task, update-task, toggle-task, delete-task, list-tasks, view-tasks")
	return nil
}

func (m *TaskModule) Start(_ context.Context) error {
	if m.sessionPort == nil {
		return fmt.Errorf("sessionPort dependency not set")
	}
	if m.storagePlugin == nil || m.storagePlugin.Port() == nil {
		return fmt.Errorf("storage plugin not set - ensure 'storage' plugin is registered")
	}

	repo, err := NewRepository(m.storagePlugin.Port(), WithClock(m.now))
	if err != nil {
		return err
	}
	m.repo = repo

	if m.eventBus == nil {
		log.Println("[task] Warning: eventBus not set, events will not be published")
	}
	log.Println("[task] Module started (depends on: session)")
	return nil
}

func (m *TaskModule) Stop(_ context.Context) error {
	log.Println("[task] Module stopped")
	return nil
}

// Health reports the size of the loaded collection and view cache usage.
func (m *TaskModule) Health(_ context.Context) mono.HealthStatus {
	if m.repo == nil {
		return mono.HealthStatus{Healthy: false, Message: "not started"}
	}
	tasks, revision := m.repo.Snapshot()
	hits, misses := m.views.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"loaded_tasks":     len(tasks),
			"revision":         revision,
			"view_cache_hits":  hits,
			"view_cache_miss":  misses,
			"session_attached": m.repo.Owner() != "",
		},
	}
}
