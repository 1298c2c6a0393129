package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/task-tracker/config"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/session"
	"github.com/example/task-tracker/modules/storage"
	"github.com/example/task-tracker/modules/task"
	"golang.org/x/text/language"
)

// cli drives the session controller and task repository directly
// against the configured store.
type cli struct {
	gateway  *storage.Gateway
	session  *session.Controller
	tasks    *task.Repository
	pipeline domain.Pipeline
	now      func() time.Time
}

func newCLI(ctx context.Context, gateway *storage.Gateway, cfg config.Config, opts ...task.Option) (*cli, error) {
	lang, err := language.Parse(cfg.TitleLocale)
	if err != nil {
		log.Printf("unknown title locale %q, using English", cfg.TitleLocale)
		lang = language.English
	}

	repo, err := task.NewRepository(gateway, opts...)
	if err != nil {
		return nil, err
	}

	c := &cli{
		gateway:  gateway,
		session:  session.NewController(gateway, session.NewDelayAuthenticator(cfg.LoginDelay)),
		tasks:    repo,
		pipeline: domain.NewPipeline(lang),
		now:      time.Now,
	}

	if err := c.session.Restore(ctx); err != nil {
		return nil, err
	}
	if u, ok := c.session.Current(); ok {
		if err := c.tasks.Load(ctx, u.SessionKey()); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// requireUser returns the signed-in user or an error naming the login command.
func (c *cli) requireUser() (user.User, error) {
	u, err := c.session.Require()
	if err != nil {
		return user.User{}, fmt.Errorf("%w: run `tasktrack login NAME` first", err)
	}
	return u, nil
}

func (c *cli) login(ctx context.Context, username string) (user.User, error) {
	u, err := c.session.Login(ctx, username)
	if err != nil {
		return user.User{}, err
	}
	if err := c.tasks.Load(ctx, u.SessionKey()); err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (c *cli) logout(ctx context.Context) (*user.User, error) {
	ended, err := c.session.Logout(ctx)
	if err != nil {
		return nil, err
	}
	if ended != nil {
		c.tasks.Discard(ended.SessionKey())
	}
	return ended, nil
}
