package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
)

// UserStore persists the signed-in user.
type UserStore interface {
	LoadUser(ctx context.Context) (*user.User, error)
	SaveUser(ctx context.Context, u user.User) error
	ClearUser(ctx context.Context) error
}

// Controller tracks whether a user is signed in.
type Controller struct {
	mu      sync.RWMutex
	store   UserStore
	auth    Authenticator
	current *user.User
}

// NewController creates an anonymous controller. Call Restore to pick up
// a persisted sign-in.
func NewController(store UserStore, auth Authenticator) *Controller {
	return &Controller{store: store, auth: auth}
}

// Restore loads the persisted user. Unreadable data leaves the
// controller anonymous.
func (c *Controller) Restore(ctx context.Context) error {
	u, err := c.store.LoadUser(ctx)
	if err != nil {
		if !errors.Is(err, task.ErrStorageCorrupt) {
			return fmt.Errorf("failed to restore session: %w", err)
		}
		log.Printf("[session] Warning: ignoring stored user: %v", err)
		u = nil
	}

	c.mu.Lock()
	c.current = u
	c.mu.Unlock()
	return nil
}

// Login signs in username, replacing any current user.
func (c *Controller) Login(ctx context.Context, username string) (user.User, error) {
	name, err := user.NormalizeUsername(username)
	if err != nil {
		return user.User{}, err
	}

	u, err := c.auth.Authenticate(ctx, name)
	if err != nil {
		return user.User{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.SaveUser(ctx, u); err != nil {
		return user.User{}, fmt.Errorf("failed to persist user: %w", err)
	}
	c.current = &u
	return u, nil
}

// Logout signs out the current user and returns it, or nil if nobody was
// signed in. Persisted tasks are not touched.
func (c *Controller) Logout(ctx context.Context) (*user.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.ClearUser(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear user: %w", err)
	}
	ended := c.current
	c.current = nil
	return ended, nil
}

// Current returns the signed-in user.
func (c *Controller) Current() (user.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil {
		return user.User{}, false
	}
	return *c.current, true
}

// Require returns the signed-in user or ErrUnauthenticated.
func (c *Controller) Require() (user.User, error) {
	u, ok := c.Current()
	if !ok {
		return user.User{}, user.ErrUnauthenticated
	}
	return u, nil
}
