package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/internal/memory"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func newStore(t *testing.T) types.Store {
	t.Helper()
	s := memory.NewBackend()
	require.NoError(t, s.Attach(types.Config{Backend: types.BackendMemory}))
	t.Cleanup(func() { s.Detach() })
	return s
}

func TestLoadMissing(t *testing.T) {
	var u types.User
	found, err := Load(context.Background(), newStore(t), types.SessionKey, &u)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	want := types.User{ID: "1", Name: "Demo User", Email: "demo@example.com"}
	require.NoError(t, Save(ctx, s, types.SessionKey, want))

	var got types.User
	found, err := Load(ctx, s, types.SessionKey, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestLoadCorruptDeletesKey(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Set(ctx, types.SessionKey, []byte("{not json")))

	var u types.User
	found, err := Load(ctx, s, types.SessionKey, &u)
	assert.False(t, found)
	assert.ErrorIs(t, err, types.ErrStorageCorrupt)

	_, err = s.Get(ctx, types.SessionKey)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestLoadDetachedStore(t *testing.T) {
	s := memory.NewBackend()
	var u types.User
	_, err := Load(context.Background(), s, types.SessionKey, &u)
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, Save(ctx, s, types.ThemeKey, types.ThemeDark))
	require.NoError(t, Remove(ctx, s, types.ThemeKey))
	require.NoError(t, Remove(ctx, s, types.ThemeKey))

	_, err := s.Get(ctx, types.ThemeKey)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
