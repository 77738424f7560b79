package main

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/namefreezers/weatherwise/internal/config"
	"github.com/namefreezers/weatherwise/internal/repository"
	"github.com/namefreezers/weatherwise/internal/warmer"
	"github.com/namefreezers/weatherwise/internal/weather"
	"github.com/namefreezers/weatherwise/pkg/graceful"
)

func main() {
	// 1) Load config
	cfg, err := config.LoadScheduler()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	// 2) Init logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()

	// 3) Open DB
	db, err := repository.OpenDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	prefRepo := repository.NewPreferenceRepository(db, logger)
	if err := prefRepo.EnsureSchema(context.Background()); err != nil {
		logger.Fatal("failed to prepare preferences table", zap.Error(err))
	}

	// 4) Wire up the cached lookup; without a cache there is nothing to warm
	_, cached, err := weather.BuildLookup(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize weather lookup", zap.Error(err))
	}
	if cached == nil {
		logger.Fatal("envelope cache is disabled; set REDIS_ADDR and a non-zero CACHE_TTL")
	}

	w := warmer.New(prefRepo, cached, logger)

	ctx, cancel := graceful.Context(context.Background(), logger)
	defer cancel()

	// 5) Build cron (standard 5-field, minute resolution)
	c := cron.New()
	_, err = c.AddFunc(cfg.WarmSchedule, func() {
		if _, err := w.Run(ctx); err != nil {
			logger.Error("cache warm run failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Fatal("unable to schedule cron job", zap.String("cronSpec", cfg.WarmSchedule), zap.Error(err))
	}

	logger.Info("starting scheduler", zap.String("cronSpec", cfg.WarmSchedule))
	c.Start()

	<-ctx.Done()
	// wait for a running job to finish
	<-c.Stop().Done()
	logger.Info("scheduler stopped")
}
