package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobboard-service/internal/server"
	"jobboard-service/pkg/config"
	"jobboard-service/pkg/database"
	"jobboard-service/pkg/logger"
	"jobboard-service/pkg/storage"

	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()
	log.Info("Starting job board service...", zap.String("environment", cfg.Server.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.InitDB(&cfg.DB, server.Models()...)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established", zap.String("driver", cfg.DB.Driver))

	// Initialize resume storage
	store, err := storage.NewFromConfig(ctx, cfg.Storage, cfg.AWS)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	log.Info("Resume storage initialized", zap.String("bucket", cfg.Storage.Bucket))

	e := server.New(server.Deps{
		Config:  cfg,
		DB:      db,
		Storage: store,
		Logger:  log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown error", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info("Server stopped")
}
