package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/brunobiangulo/riskmirror/profile"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.openEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			sc := loadServerConfig(a.v)
			if cmd.Flags().Changed("addr") {
				sc.Addr = addr
			}

			validator, err := profile.NewValidator()
			if err != nil {
				return fmt.Errorf("compiling request schema: %w", err)
			}

			srv := &http.Server{
				Addr:         sc.Addr,
				Handler:      chain(newHandler(eng, validator).routes(), sc),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 5 * time.Minute, // analyze waits on the chat model
				IdleTimeout:  120 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				slog.Info("server starting", "addr", sc.Addr, "auth", sc.APIKey != "")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			slog.Info("shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			slog.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (overrides server.addr)")
	return cmd
}
