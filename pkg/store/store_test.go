package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantErr error
	}{
		{"sqlite", types.BackendSQLite, nil},
		{"redis", types.BackendRedis, nil},
		{"memory", types.BackendMemory, nil},
		{"empty", "", types.ErrBackendEmpty},
		{"unknown", "dynamodb", types.ErrBackendUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.backend)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
	require.NoError(t, err)
	defer s.Detach()

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, types.ThemeKey, []byte(`"dark"`)))
	got, err := s.Get(ctx, types.ThemeKey)
	require.NoError(t, err)
	assert.Equal(t, `"dark"`, string(got))
}

func TestOpen_InvalidSyncStrategy(t *testing.T) {
	_, err := Open(types.Config{Backend: types.BackendMemory, SyncStrategy: "sometimes"})
	assert.ErrorIs(t, err, types.ErrSyncStrategyUnknown)
}
