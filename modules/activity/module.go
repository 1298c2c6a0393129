package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/google/uuid"
)

const defaultCapacity = 200

// Entry is one line of the activity feed.
type Entry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityModule records task and session events as a feed.
// It subscribes to domain events using the EventConsumerModule interface.
type ActivityModule struct {
	entries  []Entry
	capacity int
	mu       sync.RWMutex
}

var _ mono.Module = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)
var _ mono.ServiceProviderModule = (*ActivityModule)(nil)

func NewModule() *ActivityModule {
	return NewModuleWithCapacity(defaultCapacity)
}

// NewModuleWithCapacity keeps at most capacity entries, dropping the oldest.
func NewModuleWithCapacity(capacity int) *ActivityModule {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &ActivityModule{
		entries:  make([]Entry, 0),
		capacity: capacity,
	}
}

func (m *ActivityModule) Name() string {
	return "activity"
}

func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskToggledV1, m.handleTaskToggled, m); err != nil {
		return fmt.Errorf("failed to register TaskToggled consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.SessionStartedV1, m.handleSessionStarted, m); err != nil {
		return fmt.Errorf("failed to register SessionStarted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.SessionEndedV1, m.handleSessionEnded, m); err != nil {
		return fmt.Errorf("failed to register SessionEnded consumer: %w", err)
	}

	log.Printf("[activity] Registered event consumers: TaskCreated, TaskUpdated, TaskToggled, TaskDeleted, SessionStarted, SessionEnded")
	return nil
}

func (m *ActivityModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-activity", json.Unmarshal, json.Marshal, m.listActivity,
	); err != nil {
		return fmt.Errorf("failed to register list-activity service: %w", err)
	}
	log.Printf("[activity] Registered services: list-activity")
	return nil
}

func (m *ActivityModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.record("task_created", event.TaskID, fmt.Sprintf("Task '%s' added (%s priority)", event.Title, event.Priority), event.CreatedAt)
	return nil
}

func (m *ActivityModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.record("task_updated", event.TaskID, fmt.Sprintf("Task '%s' edited", event.Title), event.UpdatedAt)
	return nil
}

func (m *ActivityModule) handleTaskToggled(_ context.Context, event events.TaskToggledEvent, _ *mono.Msg) error {
	state := "reopened"
	if event.Completed {
		state = "completed"
	}
	m.record("task_toggled", event.TaskID, fmt.Sprintf("Task '%s' %s", event.Title, state), event.UpdatedAt)
	return nil
}

func (m *ActivityModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.record("task_deleted", event.TaskID, fmt.Sprintf("Task %s deleted", event.TaskID), event.DeletedAt)
	return nil
}

func (m *ActivityModule) handleSessionStarted(_ context.Context, event events.SessionStartedEvent, _ *mono.Msg) error {
	m.record("session_started", event.Username, fmt.Sprintf("%s signed in", event.Username), event.LoginTime)
	return nil
}

func (m *ActivityModule) handleSessionEnded(_ context.Context, event events.SessionEndedEvent, _ *mono.Msg) error {
	m.record("session_ended", event.Username, fmt.Sprintf("%s signed out", event.Username), event.EndedAt)
	return nil
}

func (m *ActivityModule) record(entryType, subject, message string, at time.Time) {
	if at.IsZero() {
		at = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, Entry{
		ID:        uuid.NewString(),
		Type:      entryType,
		Subject:   subject,
		Message:   message,
		Timestamp: at,
	})
	if over := len(m.entries) - m.capacity; over > 0 {
		m.entries = append(m.entries[:0:0], m.entries[over:]...)
	}
}

// Entries returns the feed, newest first, at most limit entries
// (all when limit <= 0).
func (m *ActivityModule) Entries(limit int) []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]Entry, 0, n)
	for i := len(m.entries) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, m.entries[i])
	}
	return result
}

func (m *ActivityModule) Start(_ context.Context) error {
	log.Println("[activity] Module started - listening for task and session events")
	return nil
}

func (m *ActivityModule) Stop(_ context.Context) error {
	log.Println("[activity] Module stopped")
	return nil
}
