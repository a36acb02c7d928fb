package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskboard/internal/httpapi"
	"github.com/mesh-intelligence/taskboard/internal/logging"
	"github.com/mesh-intelligence/taskboard/internal/notify"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(e *env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = e.settings.HTTPAddr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return e.serve(ctx, addr)
		}),
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from http.addr)")
	return cmd
}

// serve runs the HTTP server until ctx is done.
func (e *env) serve(ctx context.Context, addr string) (err error) {
	srv, a, err := e.newServer(ctx, addr)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = sysError(fmt.Errorf("close store: %w", cerr))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logging.Info(ctx, "http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return sysError(fmt.Errorf("http server: %w", err))
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logging.Info(ctx, "http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return sysError(fmt.Errorf("shutdown: %w", err))
	}
	return nil
}

// newServer opens the app for a long-running server and builds the HTTP
// server for addr. Notifications are logged only. The caller must Close the
// app.
func (e *env) newServer(ctx context.Context, addr string) (*http.Server, *app, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := e.openApp(ctx, reg, notify.Log{})
	if err != nil {
		return nil, nil, err
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(a.sess, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, a, nil
}
