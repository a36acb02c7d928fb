// Package storetest provides a contract test suite that every types.Store
// backend must pass.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Factory returns an attached store and its config. The suite detaches it.
type Factory func(t *testing.T) (types.Store, types.Config)

// Run exercises the Store contract against the backend built by newStore.
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("get missing key returns ErrNotFound", func(t *testing.T) {
		s, _ := newStore(t)
		defer s.Detach()

		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("set then get returns value", func(t *testing.T) {
		s, _ := newStore(t)
		defer s.Detach()

		require.NoError(t, s.Set(ctx, "user", []byte(`{"id":"1"}`)))
		got, err := s.Get(ctx, "user")
		require.NoError(t, err)
		assert.Equal(t, `{"id":"1"}`, string(got))
	})

	t.Run("set overwrites previous value", func(t *testing.T) {
		s, _ := newStore(t)
		defer s.Detach()

		require.NoError(t, s.Set(ctx, "theme", []byte(`"light"`)))
		require.NoError(t, s.Set(ctx, "theme", []byte(`"dark"`)))
		got, err := s.Get(ctx, "theme")
		require.NoError(t, err)
		assert.Equal(t, `"dark"`, string(got))
	})

	t.Run("delete removes key and is idempotent", func(t *testing.T) {
		s, _ := newStore(t)
		defer s.Detach()

		require.NoError(t, s.Set(ctx, "user", []byte(`{}`)))
		require.NoError(t, s.Delete(ctx, "user"))
		_, err := s.Get(ctx, "user")
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, s.Delete(ctx, "user"))
	})

	t.Run("empty key rejected", func(t *testing.T) {
		s, _ := newStore(t)
		defer s.Detach()

		assert.ErrorIs(t, s.Set(ctx, "", []byte("x")), types.ErrInvalidKey)
		_, err := s.Get(ctx, "")
		assert.ErrorIs(t, err, types.ErrInvalidKey)
		assert.ErrorIs(t, s.Delete(ctx, ""), types.ErrInvalidKey)
	})

	t.Run("non-JSON values are stored verbatim", func(t *testing.T) {
		s, _ := newStore(t)
		defer s.Detach()

		require.NoError(t, s.Set(ctx, "tasks_1", []byte("{not json")))
		got, err := s.Get(ctx, "tasks_1")
		require.NoError(t, err)
		assert.Equal(t, "{not json", string(got))
	})

	t.Run("double attach fails", func(t *testing.T) {
		s, cfg := newStore(t)
		defer s.Detach()

		assert.ErrorIs(t, s.Attach(cfg), types.ErrAlreadyAttached)
	})

	t.Run("operations after detach fail and detach is idempotent", func(t *testing.T) {
		s, _ := newStore(t)
		require.NoError(t, s.Detach())
		require.NoError(t, s.Detach())

		_, err := s.Get(ctx, "user")
		assert.ErrorIs(t, err, types.ErrStoreDetached)
		assert.ErrorIs(t, s.Set(ctx, "user", []byte("{}")), types.ErrStoreDetached)
		assert.ErrorIs(t, s.Delete(ctx, "user"), types.ErrStoreDetached)
	})

	t.Run("values survive detach and reattach", func(t *testing.T) {
		s, cfg := newStore(t)
		require.NoError(t, s.Set(ctx, "tasks_7", []byte(`[]`)))
		require.NoError(t, s.Detach())

		require.NoError(t, s.Attach(cfg))
		defer s.Detach()
		got, err := s.Get(ctx, "tasks_7")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
	})
}
