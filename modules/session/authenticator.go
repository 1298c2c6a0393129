package session

import (
	"context"
	"time"

	"github.com/example/task-tracker/domain/user"
)

// Authenticator turns a username into a signed-in user.
type Authenticator interface {
	Authenticate(ctx context.Context, username string) (user.User, error)
}

// DelayAuthenticator accepts any non-blank username after an optional delay.
type DelayAuthenticator struct {
	Delay time.Duration
	Now   func() time.Time
}

// NewDelayAuthenticator returns an authenticator that waits delay before
// accepting a login.
func NewDelayAuthenticator(delay time.Duration) *DelayAuthenticator {
	return &DelayAuthenticator{Delay: delay, Now: time.Now}
}

// Authenticate implements Authenticator.
func (a *DelayAuthenticator) Authenticate(ctx context.Context, username string) (user.User, error) {
	if a.Delay > 0 {
		timer := time.NewTimer(a.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return user.User{}, ctx.Err()
		}
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	return user.New(username, now())
}
