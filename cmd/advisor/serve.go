package main

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

	"github.com/warp/finance-advisor/api"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == 0 {
				port = a.cfg.Port
			}
			return a.serve(port)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (overrides ADVISOR_PORT)")
	return cmd
}

// serve blocks until SIGINT/SIGTERM, then drains requests for up to 30s.
func (a *app) serve(port int) error {
	handler := api.NewHandler(a.store, a.cfg.Rules.AdviceConfig(), a.log)
	router := api.NewRouter(handler, api.RouterOptions{AllowedOrigins: a.cfg.CORSOrigins})

	var digest *api.DigestScheduler
	if a.cfg.DigestSchedule != "" {
		var err error
		digest, err = api.NewDigestScheduler(handler.Advisor, a.log, a.cfg.DigestSchedule)
		if err != nil {
			return err
		}
		digest.Start()
		defer digest.Stop()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", server.Addr).WithField("db", a.cfg.DBPath).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	a.log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.log.Info("server stopped")
	return nil
}
