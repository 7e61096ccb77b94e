package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	config "project-board.com/project-board/internal/configs"
	httpapi "project-board.com/project-board/internal/http"
	"project-board.com/project-board/internal/limiter"
	"project-board.com/project-board/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task board HTTP API on the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		rateLimiter, closeLimiter, err := newLimiter(cfg)
		if err != nil {
			return err
		}
		defer closeLimiter()

		taskService := services.NewTaskService(store,
			services.WithLogger(logger),
			services.WithActor(cfg.SystemUser),
		)
		bulkService := services.NewBulkService(taskService, cfg.BulkWorkers)

		e := httpapi.NewServer(httpapi.NewHandler(taskService, bulkService), httpapi.ServerOptions{
			Logger:             logger,
			Limiter:            rateLimiter,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		})

		errCh := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening",
				zap.String("addr", cfg.AppURL),
				zap.String("store", cfg.DatabaseDriver),
				zap.String("rate_limit_backend", cfg.RateLimitBackend),
			)
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case <-ctx.Done():
		case err := <-errCh:
			return err
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP server shutdown incomplete", zap.Error(err))
		}

		logger.Info("HTTP server shut down gracefully")
		return nil
	},
}

func newLimiter(cfg config.Config) (limiter.Limiter, func(), error) {
	if cfg.RateLimitBackend != config.LimiterRedis {
		return limiter.NewMemoryLimiter(cfg.RateLimit, time.Minute), func() {}, nil
	}

	client, err := config.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}
	return limiter.NewRedisLimiter(client, cfg.RedisKeyPrefix, cfg.RateLimit, time.Minute), client.Close, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
