package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/UnknownOlympus/locus/internal/api"
	"github.com/UnknownOlympus/locus/internal/config"
	"github.com/UnknownOlympus/locus/internal/logger"
	"github.com/UnknownOlympus/locus/internal/metrics"
	"github.com/UnknownOlympus/locus/internal/ranking"
	"github.com/UnknownOlympus/locus/internal/repository"
	"github.com/UnknownOlympus/locus/internal/service"
	"github.com/UnknownOlympus/locus/internal/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	appLogger := logger.Setup(cfg.Env)

	// Create a separate registry for metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Connect to the record store and make sure the schools table exists.
	store, closeStore, err := repository.Open(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize record store: %v", err)
	}
	defer closeStore()

	// Create the ranker using factory pattern based on configuration.
	strategy := ranking.Strategy(cfg.RankingStrategy)
	ranker, err := ranking.NewRanker(ranking.Config{
		Strategy: strategy,
		Store:    store,
		Logger:   appLogger,
	})
	if err != nil {
		log.Fatalf("Failed to create ranker: %v", err)
	}

	validator, err := validation.New()
	if err != nil {
		log.Fatalf("Failed to create validator: %v", err)
	}

	schoolService := service.NewSchoolService(appLogger, store, ranker, strategy, appMetrics, validator)

	appLogger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.",
		"store", cfg.Store, "strategy", cfg.RankingStrategy)

	// Serve until the context is canceled (e.g., by Ctrl+C).
	err = api.Run(ctx, appLogger, api.Config{
		Port:         cfg.Port,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, api.NewHandler(appLogger, schoolService, store, reg))
	if err != nil {
		appLogger.ErrorContext(ctx, "API server stopped with error", "error", err)
		return
	}

	// Log graceful shutdown completion.
	appLogger.InfoContext(ctx, "Application stopped gracefully.")
}
