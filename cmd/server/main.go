package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hardwayp3nny/ioweb/internal/config"
	apphttp "github.com/hardwayp3nny/ioweb/internal/http"
	applogger "github.com/hardwayp3nny/ioweb/internal/logger"
	"github.com/hardwayp3nny/ioweb/internal/repository/factory"
	"github.com/hardwayp3nny/ioweb/internal/service"

	"go.uber.org/zap"
)

func main() {
	// Создаём отменяемый контекст для всего приложения
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.LoadConfig()

	logger, err := applogger.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("Error during logger sync: %v", err)
		}
	}()

	logger.Info("Starting snapshot service",
		zap.String("version", "1.0.0"),
		zap.String("store_driver", cfg.StoreConfig.Driver),
		zap.String("error_mapping", cfg.ErrorMapping),
		zap.Bool("validate_snapshots", cfg.ValidateSnapshots),
	)

	// Инициализация хранилища
	store, err := factory.Open(ctx, cfg.StoreConfig, logger)
	if err != nil {
		logger.Error("Failed to open snapshot store", zap.Error(err))
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close snapshot store", zap.Error(err))
			return
		}
		logger.Info("Snapshot store closed")
	}()

	snapshotService := service.NewSnapshotService(store, cfg.ValidateSnapshots, logger)

	httpServer := apphttp.NewHTTPServer(cfg.RESTPort, snapshotService, apphttp.Options{
		ErrorMapping: cfg.ErrorMapping,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}, logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case err := <-serverErr:
		logger.Error("HTTP server failed", zap.Error(err))
	}

	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("HTTP server shutdown due to timeout")
		} else {
			logger.Error("HTTP server shutdown failed", zap.Error(err))
		}
	}

	logger.Info("Snapshot service stopped")
}
