package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
)

// Keys of the persisted layout.
const (
	TasksKey    = "tasks"
	UserKey     = "user"
	DarkModeKey = "darkMode"
)

// Gateway serializes application state into a KV store.
type Gateway struct {
	kv     KV
	prefix string
}

// NewGateway wraps kv. Every key is stored under prefix.
func NewGateway(kv KV, prefix string) *Gateway {
	return &Gateway{kv: kv, prefix: prefix}
}

func (g *Gateway) key(k string) string {
	return g.prefix + k
}

// GetString returns the value stored at key and whether it was present.
func (g *Gateway) GetString(ctx context.Context, key string) (string, bool, error) {
	data, err := g.kv.GetWithContext(ctx, g.key(key))
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if data == nil {
		return "", false, nil
	}
	return string(data), true, nil
}

// SetString stores value at key.
func (g *Gateway) SetString(ctx context.Context, key, value string) error {
	if err := g.kv.SetWithContext(ctx, g.key(key), []byte(value), 0); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// RemoveKey deletes key. Removing a missing key is not an error.
func (g *Gateway) RemoveKey(ctx context.Context, key string) error {
	if err := g.kv.DeleteWithContext(ctx, g.key(key)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// LoadTasks returns the persisted collection. A missing key yields an empty
// collection; undecodable data yields an empty collection and ErrStorageCorrupt.
func (g *Gateway) LoadTasks(ctx context.Context) ([]task.Task, error) {
	raw, ok, err := g.GetString(ctx, TasksKey)
	if err != nil {
		return nil, err
	}
	tasks := make([]task.Task, 0)
	if !ok {
		return tasks, nil
	}
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return make([]task.Task, 0), fmt.Errorf("%w: %s: %v", task.ErrStorageCorrupt, TasksKey, err)
	}
	if tasks == nil {
		tasks = make([]task.Task, 0)
	}
	return tasks, nil
}

// SaveTasks replaces the persisted collection with tasks.
func (g *Gateway) SaveTasks(ctx context.Context, tasks []task.Task) error {
	if tasks == nil {
		tasks = make([]task.Task, 0)
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}
	return g.SetString(ctx, TasksKey, string(data))
}

// LoadUser returns the persisted user, or nil when none is stored.
// Undecodable data yields nil and ErrStorageCorrupt.
func (g *Gateway) LoadUser(ctx context.Context) (*user.User, error) {
	raw, ok, err := g.GetString(ctx, UserKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var u user.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", task.ErrStorageCorrupt, UserKey, err)
	}
	if u.Username == "" {
		return nil, fmt.Errorf("%w: %s: missing username", task.ErrStorageCorrupt, UserKey)
	}
	return &u, nil
}

// SaveUser persists u as the current user.
func (g *Gateway) SaveUser(ctx context.Context, u user.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	return g.SetString(ctx, UserKey, string(data))
}

// ClearUser removes the persisted user. Tasks are left in place.
func (g *Gateway) ClearUser(ctx context.Context) error {
	return g.RemoveKey(ctx, UserKey)
}

// DarkMode returns the stored theme preference. Missing or unreadable
// values mean light mode.
func (g *Gateway) DarkMode(ctx context.Context) (bool, error) {
	raw, ok, err := g.GetString(ctx, DarkModeKey)
	if err != nil || !ok {
		return false, err
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return false, nil
	}
	return enabled, nil
}

// SetDarkMode stores the theme preference.
func (g *Gateway) SetDarkMode(ctx context.Context, enabled bool) error {
	return g.SetString(ctx, DarkModeKey, strconv.FormatBool(enabled))
}

// Close closes the underlying store.
func (g *Gateway) Close() error {
	return g.kv.Close()
}
