package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/identity"
	"github.com/mesh-intelligence/taskboard/internal/notify"
	"github.com/mesh-intelligence/taskboard/internal/session"
	"github.com/mesh-intelligence/taskboard/internal/tasks"
	"github.com/mesh-intelligence/taskboard/pkg/store"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// app is an open store with a started session.
type app struct {
	kv       types.Store
	sess     *session.Session
	notifier notify.Notifier
}

// openApp attaches the configured store and starts the session. Metrics are
// registered with reg when it is non-nil; notifications go to n. The caller
// must Close the app.
func (e *env) openApp(ctx context.Context, reg prometheus.Registerer, n notify.Notifier) (*app, error) {
	kv, err := store.Open(e.settings.Store)
	if err != nil {
		return nil, err
	}

	sess, err := session.New(kv, session.Options{
		Identity: identity.Options{
			Delay:      e.settings.AuthDelay,
			BcryptCost: e.settings.BcryptCost,
		},
		Tasks:    tasks.Options{Metrics: tasks.NewMetrics(reg)},
		Notifier: n,
	})
	if err != nil {
		_ = kv.Detach()
		return nil, sysError(err)
	}
	if err := sess.Start(ctx); err != nil {
		_ = kv.Detach()
		return nil, sysError(fmt.Errorf("start session: %w", err))
	}
	return &app{kv: kv, sess: sess, notifier: n}, nil
}

// Close detaches the store.
func (a *app) Close() error {
	return a.kv.Detach()
}

// withApp opens the app, runs fn and closes the app. Notifications raised by
// fn are printed to stderr in text mode.
func (e *env) withApp(cmd *cobra.Command, fn func(a *app) error) (err error) {
	notes := &notify.Recorder{}
	a, err := e.openApp(cmd.Context(), nil, notify.Multi(notes, notify.Log{}))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = sysError(fmt.Errorf("close store: %w", cerr))
		}
	}()

	err = fn(a)
	if !e.flags.jsonMode {
		for _, n := range notes.All() {
			printNotification(cmd.ErrOrStderr(), n)
		}
	}
	return err
}
