package theme

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/internal/memory"
	"github.com/mesh-intelligence/taskboard/internal/notify"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func setup(t *testing.T) (*Store, *memory.Backend, *notify.Recorder) {
	t.Helper()
	kv := memory.NewBackend()
	require.NoError(t, kv.Attach(types.Config{Backend: types.BackendMemory}))
	notes := &notify.Recorder{}
	return New(kv, notes), kv, notes
}

func TestGet_DefaultsToLight(t *testing.T) {
	s, _, _ := setup(t)
	got, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.ThemeLight, got)
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	s, kv, notes := setup(t)

	next, err := s.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ThemeDark, next)

	data, err := kv.Get(ctx, types.ThemeKey)
	require.NoError(t, err)
	assert.Equal(t, `"dark"`, string(data))

	last, _ := notes.Last()
	assert.Equal(t, "Dark mode activated", last.Title)
	assert.Equal(t, "You've switched to dark mode", last.Description)

	next, err = s.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ThemeLight, next)
}

func TestSet_RejectsUnknownTheme(t *testing.T) {
	s, _, notes := setup(t)
	err := s.Set(context.Background(), "sepia")
	assert.ErrorIs(t, err, types.ErrInvalidTheme)
	assert.Empty(t, notes.All())
}

func TestGet_HealsBadValues(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":      `dark`,
		"unknown theme": `"sepia"`,
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s, kv, _ := setup(t)
			require.NoError(t, kv.Set(ctx, types.ThemeKey, []byte(raw)))

			got, err := s.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, types.ThemeLight, got)

			_, err = kv.Get(ctx, types.ThemeKey)
			assert.ErrorIs(t, err, types.ErrNotFound)
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Light", Title(types.ThemeLight))
	assert.Equal(t, "", Title(""))
}
