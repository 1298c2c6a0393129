package task

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
)

// errDiscarded is returned by mutations after the collection was discarded
// and before it is loaded again.
var errDiscarded = fmt.Errorf("%w: session ended, collection not loaded", user.ErrUnauthenticated)

// TaskStore persists the whole task collection.
type TaskStore interface {
	LoadTasks(ctx context.Context) ([]domain.Task, error)
	SaveTasks(ctx context.Context, tasks []domain.Task) error
}

// Repository holds the task collection of the current session. Newest tasks
// come first. Every mutation writes the full collection to the store before
// it becomes visible; a failed write leaves the collection unchanged.
type Repository struct {
	mu        sync.RWMutex
	store     TaskStore
	newID     IDGenerator
	now       func() time.Time
	tasks     []domain.Task
	owner     string
	discarded bool
	revision  uint64
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator sets the id source.
func WithIDGenerator(gen IDGenerator) Option {
	return func(r *Repository) { r.newID = gen }
}

// NewRepository creates an empty repository backed by store.
func NewRepository(store TaskStore, opts ...Option) (*Repository, error) {
	r := &Repository{
		store: store,
		now:   time.Now,
		tasks: make([]domain.Task, 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.newID == nil {
		gen, err := NewIDGenerator(r.now)
		if err != nil {
			return nil, err
		}
		r.newID = gen
	}
	return r, nil
}

// Load replaces the in-memory collection with the stored one and records
// owner as the session it was loaded for. Corrupt data loads as empty.
func (r *Repository) Load(ctx context.Context, owner string) error {
	tasks, err := r.store.LoadTasks(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrStorageCorrupt) {
			return fmt.Errorf("failed to load tasks: %w", err)
		}
		log.Printf("[task] Warning: starting with an empty collection: %v", err)
		tasks = make([]domain.Task, 0)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = tasks
	r.owner = owner
	r.discarded = false
	r.revision++
	return nil
}

// Discard drops the in-memory collection if it was loaded for owner and
// reports whether it did. Stored tasks are kept. Mutations fail until the
// next Load.
func (r *Repository) Discard(owner string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owner != owner {
		return false
	}
	r.tasks = make([]domain.Task, 0)
	r.owner = ""
	r.discarded = true
	r.revision++
	return true
}

// Owner returns the session the collection was loaded for.
func (r *Repository) Owner() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.owner
}

// LoadAll returns a copy of the collection in stored order.
func (r *Repository) LoadAll() []domain.Task {
	tasks, _ := r.Snapshot()
	return tasks
}

// Snapshot returns a copy of the collection and its revision. The revision
// changes whenever the collection does.
func (r *Repository) Snapshot() ([]domain.Task, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Task, len(r.tasks))
	copy(out, r.tasks)
	return out, r.revision
}

// Get returns the task with id.
func (r *Repository) Get(id string) (domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return r.tasks[i], nil
}

// Create adds a task at the front of the collection.
func (r *Repository) Create(ctx context.Context, in domain.CreateInput) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.discarded {
		return domain.Task{}, errDiscarded
	}

	id := r.newID()
	for r.indexOf(id) >= 0 {
		id = r.newID()
	}

	t, err := domain.NewTask(id, in, r.now())
	if err != nil {
		return domain.Task{}, err
	}

	next := make([]domain.Task, 0, len(r.tasks)+1)
	next = append(next, t)
	next = append(next, r.tasks...)
	if err := r.commit(ctx, next); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// Update replaces the fields set in in.
func (r *Repository) Update(ctx context.Context, id string, in domain.UpdateInput) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.discarded {
		return domain.Task{}, errDiscarded
	}

	i := r.indexOf(id)
	if i < 0 {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	updated, err := in.Apply(r.tasks[i])
	if err != nil {
		return domain.Task{}, err
	}
	updated.UpdatedAt = r.stamp(r.tasks[i].UpdatedAt)

	if err := r.commit(ctx, r.replaced(i, updated)); err != nil {
		return domain.Task{}, err
	}
	return updated, nil
}

// ToggleComplete flips the completed flag of the task with id.
func (r *Repository) ToggleComplete(ctx context.Context, id string) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.discarded {
		return domain.Task{}, errDiscarded
	}

	i := r.indexOf(id)
	if i < 0 {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	toggled := r.tasks[i]
	toggled.Completed = !toggled.Completed
	toggled.UpdatedAt = r.stamp(toggled.UpdatedAt)

	if err := r.commit(ctx, r.replaced(i, toggled)); err != nil {
		return domain.Task{}, err
	}
	return toggled, nil
}

// Delete removes the task with id and reports whether it existed.
// Deleting an unknown id is not an error.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.discarded {
		return false, errDiscarded
	}

	next := make([]domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	existed := len(next) != len(r.tasks)

	if err := r.commit(ctx, next); err != nil {
		return false, err
	}
	return existed, nil
}

// commit persists next and makes it current. Callers hold r.mu.
func (r *Repository) commit(ctx context.Context, next []domain.Task) error {
	if err := r.store.SaveTasks(ctx, next); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	r.tasks = next
	r.revision++
	return nil
}

func (r *Repository) replaced(i int, t domain.Task) []domain.Task {
	next := make([]domain.Task, len(r.tasks))
	copy(next, r.tasks)
	next[i] = t
	return next
}

func (r *Repository) indexOf(id string) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// stamp returns the current time, never earlier than prev.
func (r *Repository) stamp(prev time.Time) time.Time {
	now := r.now()
	if now.Before(prev) {
		return prev
	}
	return now
}
