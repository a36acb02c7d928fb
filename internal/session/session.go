// Package session ties identity, tasks and theme together over one Store.
// A Session is the application state handed to the CLI and HTTP layers.
package session

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/taskboard/internal/identity"
	"github.com/mesh-intelligence/taskboard/internal/notify"
	"github.com/mesh-intelligence/taskboard/internal/tasks"
	"github.com/mesh-intelligence/taskboard/internal/theme"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Options configures the stores of a Session. Notifier is used by every
// store whose own options leave it unset.
type Options struct {
	Identity identity.Options
	Tasks    tasks.Options
	Notifier notify.Notifier
}

// Session is the state of one signed-in (or signed-out) user.
type Session struct {
	Identity *identity.Store
	Tasks    *tasks.Store
	Theme    *theme.Store
}

// New builds the stores over kv. Call Start before use.
func New(kv types.Store, opts Options) (*Session, error) {
	if opts.Identity.Notifier == nil {
		opts.Identity.Notifier = opts.Notifier
	}
	if opts.Tasks.Notifier == nil {
		opts.Tasks.Notifier = opts.Notifier
	}

	id, err := identity.New(kv, opts.Identity)
	if err != nil {
		return nil, fmt.Errorf("creating identity store: %w", err)
	}
	return &Session{
		Identity: id,
		Tasks:    tasks.New(kv, opts.Tasks),
		Theme:    theme.New(kv, opts.Notifier),
	}, nil
}

// Start restores the stored session and loads the user's tasks.
func (s *Session) Start(ctx context.Context) error {
	if err := s.Identity.Restore(ctx); err != nil {
		return err
	}
	if u := s.Identity.User(); u != nil {
		return s.Tasks.Load(ctx, u.ID)
	}
	return nil
}

// Login signs in and loads the user's tasks.
func (s *Session) Login(ctx context.Context, email, password string) (types.User, error) {
	u, err := s.Identity.Login(ctx, email, password)
	if err != nil {
		return types.User{}, err
	}
	return u, s.Tasks.Load(ctx, u.ID)
}

// Register creates an account, signs it in and seeds its tasks.
func (s *Session) Register(ctx context.Context, name, email, password string) (types.User, error) {
	u, err := s.Identity.Register(ctx, name, email, password)
	if err != nil {
		return types.User{}, err
	}
	return u, s.Tasks.Load(ctx, u.ID)
}

// Logout signs out and forgets the loaded tasks.
func (s *Session) Logout(ctx context.Context) error {
	s.Tasks.Reset()
	return s.Identity.Logout(ctx)
}

// RequireUser returns the signed-in user or ErrNotAuthenticated.
func (s *Session) RequireUser() (types.User, error) {
	u := s.Identity.User()
	if u == nil {
		return types.User{}, types.ErrNotAuthenticated
	}
	return *u, nil
}
