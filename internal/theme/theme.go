// Package theme persists the light/dark colour scheme preference.
package theme

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskboard/internal/blob"
	"github.com/mesh-intelligence/taskboard/internal/logging"
	"github.com/mesh-intelligence/taskboard/internal/notify"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Store reads and writes the theme blob.
type Store struct {
	kv       types.Store
	notifier notify.Notifier
}

// New creates a theme store. A nil notifier discards notifications.
func New(kv types.Store, n notify.Notifier) *Store {
	if n == nil {
		n = notify.Discard
	}
	return &Store{kv: kv, notifier: n}
}

// Get returns the stored theme, or light when none is stored. A stored value
// that is not a known theme is deleted.
func (s *Store) Get(ctx context.Context) (types.Theme, error) {
	var t types.Theme
	found, err := blob.Load(ctx, s.kv, types.ThemeKey, &t)
	if errors.Is(err, types.ErrStorageCorrupt) {
		return types.ThemeLight, nil
	}
	if err != nil {
		return "", err
	}
	if !found {
		return types.ThemeLight, nil
	}
	if !t.Valid() {
		logging.Warn(ctx, "discarding unknown theme", zap.String("theme", string(t)))
		if err := blob.Remove(ctx, s.kv, types.ThemeKey); err != nil {
			return "", err
		}
		return types.ThemeLight, nil
	}
	return t, nil
}

// Set stores t and announces the switch.
func (s *Store) Set(ctx context.Context, t types.Theme) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", types.ErrInvalidTheme, t)
	}
	if err := blob.Save(ctx, s.kv, types.ThemeKey, t); err != nil {
		return err
	}
	s.notifier.Notify(ctx, notify.Notification{
		Title:       Title(t) + " mode activated",
		Description: fmt.Sprintf("You've switched to %s mode", t),
	})
	return nil
}

// Toggle flips the stored theme and returns the new one.
func (s *Store) Toggle(ctx context.Context) (types.Theme, error) {
	cur, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	next := cur.Toggled()
	if err := s.Set(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

// Title returns the theme name with its first letter upper-cased.
func Title(t types.Theme) string {
	if t == "" {
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}
