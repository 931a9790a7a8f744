package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/UnknownOlympus/locus/internal/config"
	"github.com/UnknownOlympus/locus/internal/geocoding"
	"github.com/UnknownOlympus/locus/internal/logger"
	"github.com/UnknownOlympus/locus/internal/metrics"
	"github.com/UnknownOlympus/locus/internal/ranking"
	"github.com/UnknownOlympus/locus/internal/repository"
	"github.com/UnknownOlympus/locus/internal/seed"
	"github.com/UnknownOlympus/locus/internal/service"
	"github.com/UnknownOlympus/locus/internal/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"
)

var (
	inputFile  = flag.String("f", "schools.csv", "CSV file with name,address[,latitude,longitude] rows")
	noGeocode  = flag.Bool("no-geocode", false, "fail rows without coordinates instead of geocoding them")
	showStatus = flag.Bool("progress", true, "show a progress bar")
)

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	appLogger := logger.Setup(cfg.Env)
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())

	rows, err := seed.ReadFile(*inputFile)
	if err != nil {
		log.Fatalf("Failed to read import file: %v", err)
	}

	store, closeStore, err := repository.Open(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize record store: %v", err)
	}
	defer closeStore()

	var provider geocoding.Provider
	if !*noGeocode {
		// Spread the provider rate limit across the workers.
		rateLimit := cfg.Seed.RateLimit
		if rateLimit > 0 && cfg.Seed.Workers > 0 {
			rateLimit = max(1, rateLimit/cfg.Seed.Workers)
		}
		provider, err = geocoding.NewProvider(geocoding.ProviderConfig{
			Type:      geocoding.ProviderType(cfg.Seed.ProviderType),
			APIKey:    cfg.Seed.APIKey,
			RateLimit: rateLimit,
			Logger:    appLogger,
		})
		if err != nil {
			log.Fatalf("Failed to create geocoding provider: %v", err)
		}
		appLogger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.Seed.ProviderType)
	}

	validator, err := validation.New()
	if err != nil {
		log.Fatalf("Failed to create validator: %v", err)
	}

	// The loader only inserts, the ranker is never used for imports.
	ranker, err := ranking.NewRanker(ranking.Config{Strategy: ranking.StrategyService, Store: store, Logger: appLogger})
	if err != nil {
		log.Fatalf("Failed to create ranker: %v", err)
	}
	schoolService := service.NewSchoolService(
		appLogger, store, ranker, ranking.StrategyService, appMetrics, validator,
	)

	loader := seed.NewLoader(
		appLogger,
		schoolService,
		provider,
		cfg.Seed.ProviderType, // Provider name for metrics
		appMetrics,
		cfg.Seed.Workers,
		cfg.Seed.AddrPrefix,
	)
	if *showStatus {
		loader.WithProgress(progressbar.Default(int64(len(rows)), "importing schools"))
	}

	report := loader.Load(ctx, rows)

	log.Printf("Imported %d schools, %d rows failed", report.Imported, report.Failed)
	if report.Failed > 0 {
		closeStore()
		os.Exit(1)
	}
}
