package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/namefreezers/weatherwise/internal/config"
	"github.com/namefreezers/weatherwise/internal/handlers"
	"github.com/namefreezers/weatherwise/internal/weather"
	"github.com/namefreezers/weatherwise/pkg/graceful"
)

func main() {
	// 1) Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	// 2) Initialize structured logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()

	// 3) Build the weather lookup (aggregator, optionally cached)
	lookup, _, err := weather.BuildLookup(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize weather lookup", zap.Error(err))
	}

	// 4) Set up Gin router and handlers
	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(lookup, handlers.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      cfg.StaticDir,
	}, logger)

	// 5) Start HTTP server and stop it on SIGINT/SIGTERM
	ctx, cancel := graceful.Context(context.Background(), logger)
	defer cancel()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("starting API server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}
