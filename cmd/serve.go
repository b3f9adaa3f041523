package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/perfscope/internal/adapters/http/api"
	"github.com/okian/perfscope/internal/adapters/http/swagger"
	app "github.com/okian/perfscope/internal/app"
	"github.com/okian/perfscope/internal/config"
	"github.com/okian/perfscope/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout            = 60 * time.Second
	writeTimeout           = 60 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides PERFSCOPE_ADDR)")
	return cmd
}

// setup loads configuration and initializes logging.
func setup(ctx context.Context, opts ...logger.Option) (*config.Config, error) {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(append([]logger.Option{logger.WithFormat(cfg.LogFormat)}, opts...)...); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

func newService(cfg *config.Config) *app.Service {
	return app.New(
		app.WithLogger(logger.Named("service")),
		app.WithSessionCapacity(cfg.SessionCapacity),
		app.WithHeaderScanRows(cfg.HeaderScanRows),
		app.WithPlaceholderDomain(cfg.PlaceholderEmailDomain),
	)
}

func runServe(parent context.Context, addr string) error {
	if parent == nil {
		parent = context.Background()
	}
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if addr != "" {
		cfg.Addr = addr
	}
	log := logger.Named("server")

	svc := newService(cfg)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, cfg.MaxUploadBytes).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info(ctx, "server stopped")
	return nil
}

// startServiceMetricsUpdater refreshes the session gauges from service stats.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats updates the stored sessions gauge as a side effect.
			_ = svc.GetStats()
		}
	}
}
