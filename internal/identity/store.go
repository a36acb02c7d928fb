// Package identity manages the signed-in user: login against an allow-list
// and a durable registry of registered accounts, registration and logout.
// The session is persisted as a User blob so it survives restarts.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mesh-intelligence/taskboard/internal/blob"
	"github.com/mesh-intelligence/taskboard/internal/logging"
	"github.com/mesh-intelligence/taskboard/internal/notify"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// DefaultDelay is the simulated round trip of login and registration.
const DefaultDelay = time.Second

// Options configures a Store. Zero fields get working defaults; set Delay
// to a negative value to disable the simulated wait.
type Options struct {
	Credentials []Credential
	Delay       time.Duration
	BcryptCost  int
	Notifier    notify.Notifier
	NewID       func() string
}

// Store is the identity state of the session.
type Store struct {
	mu    sync.RWMutex
	state State
	user  *types.User
	err   string

	kv         types.Store
	allowList  []account
	delay      time.Duration
	bcryptCost int
	notifier   notify.Notifier
	newID      func() string
}

// New builds a Store in the loading state. Call Restore to read the stored
// session.
func New(kv types.Store, opts Options) (*Store, error) {
	s := &Store{
		state:      StateLoading,
		kv:         kv,
		delay:      opts.Delay,
		bcryptCost: opts.BcryptCost,
		notifier:   opts.Notifier,
		newID:      opts.NewID,
	}
	if s.delay == 0 {
		s.delay = DefaultDelay
	}
	if s.bcryptCost == 0 {
		s.bcryptCost = bcrypt.DefaultCost
	}
	if s.notifier == nil {
		s.notifier = notify.Discard
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}

	creds := opts.Credentials
	if creds == nil {
		creds = DefaultCredentials()
	}
	for _, c := range creds {
		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password for %s: %w", c.User.Email, err)
		}
		s.allowList = append(s.allowList, account{
			ID:           c.User.ID,
			Name:         c.User.Name,
			Email:        c.User.Email,
			Avatar:       c.User.Avatar,
			PasswordHash: string(hash),
		})
	}
	return s, nil
}

// Restore reads the stored session. A corrupt session blob is discarded and
// treated as no session.
func (s *Store) Restore(ctx context.Context) error {
	var u types.User
	found, err := blob.Load(ctx, s.kv, types.SessionKey, &u)
	if errors.Is(err, types.ErrStorageCorrupt) {
		logging.Warn(ctx, "discarded corrupt session")
		found, err = false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
	if err != nil {
		s.state, s.user = StateUnauthenticated, nil
		return err
	}
	if !found {
		s.state, s.user = StateUnauthenticated, nil
		return nil
	}
	s.state, s.user = StateAuthenticated, &u
	return nil
}

// Login signs in with email and password. On failure the previous user and
// state are kept, the error message is set and the returned error wraps
// ErrInvalidCredentials.
func (s *Store) Login(ctx context.Context, email, password string) (types.User, error) {
	prev := s.begin()

	user, err := s.login(ctx, email, password)
	if err != nil {
		s.fail(ctx, prev, "Login failed", err)
		return types.User{}, err
	}

	s.succeed(user)
	logging.Info(ctx, "user logged in", zap.String("user_id", user.ID))
	s.notifier.Notify(ctx, notify.Notification{
		Title:       "Login successful",
		Description: fmt.Sprintf("Welcome back, %s!", user.Name),
	})
	return user, nil
}

func (s *Store) login(ctx context.Context, email, password string) (types.User, error) {
	if err := s.wait(ctx); err != nil {
		return types.User{}, err
	}

	acct, ok := findAccount(s.allowList, email)
	if !ok {
		registry, err := s.loadRegistry(ctx)
		if err != nil {
			return types.User{}, err
		}
		acct, ok = findAccount(registry, email)
	}
	if !ok {
		return types.User{}, types.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return types.User{}, types.ErrInvalidCredentials
	}

	user := acct.user()
	if err := blob.Save(ctx, s.kv, types.SessionKey, user); err != nil {
		return types.User{}, err
	}
	return user, nil
}

// Register creates an account, stores it in the registry and signs it in.
// An email already on the allow-list or in the registry fails with
// ErrEmailAlreadyExists.
func (s *Store) Register(ctx context.Context, name, email, password string) (types.User, error) {
	prev := s.begin()

	user, err := s.register(ctx, name, email, password)
	if err != nil {
		s.fail(ctx, prev, "Registration failed", err)
		return types.User{}, err
	}

	s.succeed(user)
	logging.Info(ctx, "user registered", zap.String("user_id", user.ID))
	s.notifier.Notify(ctx, notify.Notification{
		Title:       "Registration successful",
		Description: fmt.Sprintf("Welcome, %s!", user.Name),
	})
	return user, nil
}

func (s *Store) register(ctx context.Context, name, email, password string) (types.User, error) {
	if err := s.wait(ctx); err != nil {
		return types.User{}, err
	}
	if strings.TrimSpace(name) == "" {
		return types.User{}, types.ErrInvalidName
	}
	if strings.TrimSpace(email) == "" {
		return types.User{}, types.ErrInvalidEmail
	}

	registry, err := s.loadRegistry(ctx)
	if err != nil {
		return types.User{}, err
	}
	if _, ok := findAccount(s.allowList, email); ok {
		return types.User{}, types.ErrEmailAlreadyExists
	}
	if _, ok := findAccount(registry, email); ok {
		return types.User{}, types.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return types.User{}, fmt.Errorf("hashing password: %w", err)
	}
	acct := account{
		ID:           s.newID(),
		Name:         name,
		Email:        email,
		Avatar:       AvatarURL(name),
		PasswordHash: string(hash),
	}
	if err := blob.Save(ctx, s.kv, types.RegistryKey, append(registry, acct)); err != nil {
		return types.User{}, err
	}

	user := acct.user()
	if err := blob.Save(ctx, s.kv, types.SessionKey, user); err != nil {
		return types.User{}, err
	}
	return user, nil
}

// Logout clears the stored session. It always leaves the store
// unauthenticated; the returned error only reports a failed delete.
func (s *Store) Logout(ctx context.Context) error {
	err := blob.Remove(ctx, s.kv, types.SessionKey)

	s.mu.Lock()
	s.state, s.user, s.err = StateUnauthenticated, nil, ""
	s.mu.Unlock()

	if err != nil {
		logging.Error(ctx, "clearing session failed", zap.Error(err))
	}
	s.notifier.Notify(ctx, notify.Notification{
		Title:       "Logged out",
		Description: "You have been logged out successfully",
	})
	return err
}

// State returns the current authentication state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the signed-in user, or nil.
func (s *Store) User() *types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Err returns the message of the last failed login or registration.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Snapshot returns state, user and error message read together.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{State: s.state, Error: s.err}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// begin enters the loading state and returns the state it replaced.
func (s *Store) begin() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := Snapshot{State: s.state, User: s.user}
	if prev.State == StateLoading {
		prev.State = StateUnauthenticated
	}
	s.state, s.err = StateLoading, ""
	return prev
}

func (s *Store) succeed(u types.User) {
	s.mu.Lock()
	s.state, s.user, s.err = StateAuthenticated, &u, ""
	s.mu.Unlock()
}

func (s *Store) fail(ctx context.Context, prev Snapshot, title string, err error) {
	msg := Message(err)
	s.mu.Lock()
	s.state, s.user, s.err = prev.State, prev.User, msg
	s.mu.Unlock()

	logging.Warn(ctx, strings.ToLower(title), zap.Error(err))
	s.notifier.Notify(ctx, notify.Notification{
		Title:       title,
		Description: msg,
		Variant:     notify.VariantDestructive,
	})
}

// wait blocks for the simulated round trip or until ctx is done.
func (s *Store) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// loadRegistry reads the registered accounts. A corrupt registry is
// discarded and treated as empty.
func (s *Store) loadRegistry(ctx context.Context) ([]account, error) {
	var registry []account
	_, err := blob.Load(ctx, s.kv, types.RegistryKey, &registry)
	if errors.Is(err, types.ErrStorageCorrupt) {
		logging.Warn(ctx, "discarded corrupt account registry")
		return nil, nil
	}
	return registry, err
}
