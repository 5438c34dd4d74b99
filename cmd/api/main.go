package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/api"
	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/audit"
	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/config"
	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/jobs"
	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/provider/rekognition"
	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Variables from .env never override the real environment
	if err := config.LoadEnvFile(); err != nil {
		return err
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting face liveness relay",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("region", cfg.AWSRegion),
		slog.String("collection_id", cfg.CollectionID),
		slog.Bool("static_credentials", cfg.HasStaticCredentials()),
	)

	// Rekognition client
	rekognitionCfg := rekognition.DefaultConfig()
	if cfg.AWSRegion != "" {
		rekognitionCfg.Region = cfg.AWSRegion
	}
	rekognitionCfg.AccessKeyID = cfg.AWSAccessKeyID
	rekognitionCfg.SecretAccessKey = cfg.AWSSecretAccessKey
	rekognitionCfg.KMSKeyID = cfg.AWSKMSKeyID
	rekognitionCfg.CollectionID = cfg.CollectionID
	rekognitionCfg.OutputBucket = cfg.OutputBucket

	client, err := rekognition.NewClient(context.Background(), rekognitionCfg,
		rekognition.WithLogger(logger),
		rekognition.WithAuditLogger(audit.NewSlogLogger(logger)),
	)
	if err != nil {
		return fmt.Errorf("failed to create rekognition client: %w", err)
	}

	// Background jobs
	dispatcher := jobs.NewDispatcher(logger, jobs.Config{
		Workers:   cfg.JobWorkers,
		QueueSize: cfg.JobQueueSize,
		Timeout:   cfg.JobTimeout,
	})
	dispatcher.Start()

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		Service:  service.NewFaceLivenessService(client, dispatcher, logger),
		JobStats: dispatcher,
	})
	router.Setup()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		_ = dispatcher.Stop(context.Background())
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	// Jobs queued by the last requests still run
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		logger.Error("background jobs did not finish", slog.Any("error", err))
	}

	logger.Info("server stopped")

	return nil
}
