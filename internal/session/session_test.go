package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mesh-intelligence/taskboard/internal/identity"
	"github.com/mesh-intelligence/taskboard/internal/memory"
	"github.com/mesh-intelligence/taskboard/internal/notify"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func newSession(t *testing.T, kv types.Store, notes notify.Notifier) *Session {
	t.Helper()
	s, err := New(kv, Options{
		Identity: identity.Options{Delay: -1, BcryptCost: bcrypt.MinCost},
		Notifier: notes,
	})
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	return s
}

func newKV(t *testing.T) *memory.Backend {
	t.Helper()
	kv := memory.NewBackend()
	require.NoError(t, kv.Attach(types.Config{Backend: types.BackendMemory}))
	return kv
}

func TestLoginLoadsTasks(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, newKV(t), nil)

	_, err := s.RequireUser()
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)

	u, err := s.Login(ctx, "demo@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "1", s.Tasks.UserID())
	assert.Len(t, s.Tasks.Tasks(), 4)

	got, err := s.RequireUser()
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestStartRestoresAcrossSessions(t *testing.T) {
	ctx := context.Background()
	kv := newKV(t)

	first := newSession(t, kv, nil)
	_, err := first.Login(ctx, "admin@example.com", "admin123")
	require.NoError(t, err)
	_, err = first.Tasks.AddTask(ctx, types.TaskInput{
		Title:    "Audit access",
		DueDate:  first.Tasks.Tasks()[0].DueDate,
		Priority: types.PriorityHigh,
		Status:   types.StatusPending,
	})
	require.NoError(t, err)

	second := newSession(t, kv, nil)
	assert.Equal(t, identity.StateAuthenticated, second.Identity.State())
	assert.Equal(t, "2", second.Tasks.UserID())
	assert.Len(t, second.Tasks.Tasks(), 5)
}

func TestLogoutResetsTasks(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, newKV(t), nil)
	_, err := s.Login(ctx, "demo@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx))
	assert.Empty(t, s.Tasks.Tasks())
	assert.Empty(t, s.Tasks.UserID())

	_, err = s.Tasks.AddTask(ctx, types.TaskInput{
		Title:    "x",
		DueDate:  time.Now(),
		Priority: types.PriorityLow,
		Status:   types.StatusPending,
	})
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
}

func TestRegisterSeedsTasks(t *testing.T) {
	ctx := context.Background()
	notes := &notify.Recorder{}
	s := newSession(t, newKV(t), notes)

	u, err := s.Register(ctx, "Jane", "jane@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, s.Tasks.UserID())
	assert.Len(t, s.Tasks.Tasks(), 4)

	last, ok := notes.Last()
	require.True(t, ok)
	assert.Equal(t, "Registration successful", last.Title)
}

func TestFailedLoginKeepsTasksUnloaded(t *testing.T) {
	s := newSession(t, newKV(t), nil)
	_, err := s.Login(context.Background(), "demo@example.com", "bad")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)
	assert.Empty(t, s.Tasks.UserID())
}

// unreadableKey fails every Get of key.
type unreadableKey struct {
	*memory.Backend
	key string
}

func (u *unreadableKey) Get(ctx context.Context, key string) ([]byte, error) {
	if key == u.key {
		return nil, errors.New("read error")
	}
	return u.Backend.Get(ctx, key)
}

func TestLoginWithUnreadableTasksDropsPreviousList(t *testing.T) {
	ctx := context.Background()
	kv := &unreadableKey{Backend: newKV(t), key: types.TaskKey("2")}
	s := newSession(t, kv, nil)

	_, err := s.Login(ctx, "demo@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "1", s.Tasks.UserID())
	demoTasks, err := kv.Backend.Get(ctx, types.TaskKey("1"))
	require.NoError(t, err)

	_, err = s.Login(ctx, "admin@example.com", "admin123")
	require.Error(t, err)
	assert.Empty(t, s.Tasks.UserID())
	assert.Empty(t, s.Tasks.Tasks())

	_, err = s.Tasks.AddTask(ctx, types.TaskInput{
		Title:    "Quarterly review",
		DueDate:  time.Now().Add(48 * time.Hour),
		Priority: types.PriorityLow,
		Status:   types.StatusPending,
	})
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)

	got, err := kv.Backend.Get(ctx, types.TaskKey("1"))
	require.NoError(t, err)
	assert.Equal(t, string(demoTasks), string(got))
}
