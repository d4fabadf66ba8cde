package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/labellens/backend/config"
	httpDelivery "github.com/labellens/backend/internal/delivery/http"
	"github.com/labellens/backend/internal/logger"
	"github.com/labellens/backend/internal/metrics"
)

// Start loads configuration and runs the HTTP server until SIGINT or SIGTERM
func Start() error {
	if err := config.LoadEnvFile(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return Serve(ctx, cfg)
}

// Serve builds the pipeline from cfg and runs the HTTP server until ctx is done
func Serve(ctx context.Context, cfg *config.Config) error {
	log, err := CreateLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting LabelLens backend",
		logger.String("version", httpDelivery.Version),
		logger.String("environment", cfg.Server.Environment),
		logger.String("port", cfg.Server.Port),
	)

	m := metrics.New()
	components, err := NewComponents(ctx, cfg, log, m)
	if err != nil {
		return err
	}
	defer components.Close()

	components.StartWatcher(ctx)

	return RunServer(ctx, cfg, components, log, m)
}

// RunServer serves HTTP until ctx is done, then shuts down gracefully
func RunServer(ctx context.Context, cfg *config.Config, c *Components, log logger.Logger, m *metrics.Metrics) error {
	handler := httpDelivery.NewHandler(c.Service, c.Store, httpDelivery.HandlerConfig{
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Logger:         log,
	})
	router, err := httpDelivery.SetupRouter(cfg, handler, log, m)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	log.Info("Shutting down HTTP server", logger.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	log.Info("Server exited")
	return nil
}
