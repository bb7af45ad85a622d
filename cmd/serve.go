package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bnema/paymail/internal/adapters/httpapi"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(loader *appLoader) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loader.load(cmd.Context())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = app.cfg.HTTPAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, app, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from http.addr)")

	return cmd
}

func serve(ctx context.Context, app *app, addr string) error {
	router := httpapi.NewRouter(httpapi.Deps{
		Notifier:   app.notifier,
		Pool:       app.pool,
		Sender:     app.sender,
		Controller: app.controller,
		Metrics:    app.metrics.Handler(),
		Clock:      app.clock,
		Logger:     app.logger,
	})
	srv := httpapi.NewServer(addr, router)

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("http server listening", zap.String("addr", addr), zap.Int("accounts", app.pool.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	_ = app.logger.Sync()
	return nil
}
