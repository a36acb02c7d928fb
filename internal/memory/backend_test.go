package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/internal/storetest"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func TestBackendContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) (types.Store, types.Config) {
		cfg := types.Config{Backend: types.BackendMemory}
		b := NewBackend()
		require.NoError(t, b.Attach(cfg))
		return b, cfg
	})
}

func TestBackend_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendMemory}))

	value := []byte(`"light"`)
	require.NoError(t, b.Set(ctx, types.ThemeKey, value))
	value[1] = 'X'

	got, err := b.Get(ctx, types.ThemeKey)
	require.NoError(t, err)
	assert.Equal(t, `"light"`, string(got))

	got[1] = 'Y'
	again, err := b.Get(ctx, types.ThemeKey)
	require.NoError(t, err)
	assert.Equal(t, `"light"`, string(again))
}

func TestBackend_AttachValidatesConfig(t *testing.T) {
	err := NewBackend().Attach(types.Config{})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}
