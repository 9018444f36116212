package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	defaults "github.com/camilodvr/censopueblos/config"
	"github.com/camilodvr/censopueblos/internal/config"
	"github.com/camilodvr/censopueblos/internal/platform/metrics"
	"github.com/camilodvr/censopueblos/internal/runtime"
	"github.com/camilodvr/censopueblos/internal/service"
	"github.com/camilodvr/censopueblos/internal/transport/httpapi"
)

var serveOpts struct {
	addr       string
	dataset    string
	configPath string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dataset query API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveOpts.addr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveOpts.dataset, "dataset", "", "Canonical dataset path (overrides config)")
	serveCmd.Flags().StringVar(&serveOpts.configPath, "config", "", "YAML configuration file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if serveOpts.configPath != "" {
		loaded, err := config.Load(serveOpts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if serveOpts.addr != "" {
		cfg.Addr = serveOpts.addr
	}
	if serveOpts.dataset != "" {
		cfg.DatasetPath = serveOpts.dataset
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	svc := service.New(cfg.DatasetPath, logger)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	ctrl := runtime.NewController(runtime.NewLimits(cfg.MaxConcurrentRequests))
	handler := httpapi.NewHandler(svc, logger, m)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(handler, ctrl, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Addr).
			Str("dataset", cfg.DatasetPath).
			Int("max_concurrent_requests", ctrl.LimitsSnapshot().MaxConcurrentRequests).
			Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaults.DefaultShutdownTimeout)
	defer cancel()
	logger.Info().Msg("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}
