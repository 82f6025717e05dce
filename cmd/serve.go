package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/pable/go-season-merge/internal/metrics"
	"github.com/pable/go-season-merge/internal/server"
)

var serveAddr string

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP upload service",
	Long: `Serve season computation over HTTP.

  POST /upload   multipart form: one or more "file" parts (race exports, in
                 race order) and an optional "mapping" JSON array of players
                 ({"currentName", "currentTeam", "aliases": [{"name", "team"}]}).
                 Without a mapping the configured players are used.
  GET  /teams    team names accepted in mappings
  GET  /healthz  liveness
  GET  /metrics  Prometheus metrics (server.metrics: true)`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	reg := prometheus.NewRegistry()
	srv := server.New(cfg, log.WithField("component", "server"), metrics.NewRecorder(reg), reg)

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case s := <-sig:
		log.WithField("signal", s.String()).Info("shutting down")
	}
	if err := srv.Shutdown(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
