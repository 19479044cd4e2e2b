package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kirksw/orgscope/internal/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve organization data over HTTP",
	Long: `Serve organization data as JSON:

  GET /orgs/{org}                      organization payload
  GET /orgs/{org}/repos?license=KEY    public repository names
  GET /metrics                         Prometheus metrics
  GET /healthz                         liveness`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, or :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = s.cfg.GetServeAddr()
	}

	logger := slog.Default()
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(s.newClient, s.registry, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Printf("Listening on %s\n", addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}

	logger.Info("shutting down", "addr", addr)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
