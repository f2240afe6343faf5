package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/PepeluiMoreno/sipi-etl/internal/config"
	"github.com/PepeluiMoreno/sipi-etl/internal/infrastructure/overpass"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/logger"
	"github.com/PepeluiMoreno/sipi-etl/internal/repository/cache"
	"github.com/PepeluiMoreno/sipi-etl/internal/repository/postgres"
	redisRepo "github.com/PepeluiMoreno/sipi-etl/internal/repository/redis"
	"github.com/PepeluiMoreno/sipi-etl/internal/usecase"
	"github.com/PepeluiMoreno/sipi-etl/internal/worker"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Monitor.Enabled && !cfg.Notifier.Enabled {
		fmt.Println("All workers disabled. Set MONITOR_ENABLED=true or NOTIFIER_ENABLED=true.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting SIPI Region Monitor Worker")
	log.Info("Configuration loaded",
		zap.Bool("monitor_enabled", cfg.Monitor.Enabled),
		zap.Bool("notifier_enabled", cfg.Notifier.Enabled),
		zap.Duration("monitor_interval", cfg.Monitor.DefaultInterval))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories
	regionRepo := postgres.NewRegionRepository(db)
	listingRepo := postgres.NewListingRepository(db)
	detectionRepo := postgres.NewDetectionRepository(db)
	alertRepo := postgres.NewAlertRepository(db)
	boundaryRepo := postgres.NewBoundaryRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)

	osmRepo := cache.NewCachedOSMRepository(
		overpass.NewOverpassClient(&cfg.OSM, log),
		cacheRepo,
		cfg.Cache.OSMCacheTTL,
		log,
	)
	notifierRepo := redisRepo.NewStreamRepository(redisClient.Client(), cfg.Notifier.Stream, log)

	// 6. Initialize use cases
	scorer := usecase.NewScorer(osmRepo, cfg.Scoring, log)
	matcher := usecase.NewMatchResolver(cfg.Scoring)

	scanUC := usecase.NewRegionScanUseCase(
		regionRepo,
		listingRepo,
		detectionRepo,
		alertRepo,
		boundaryRepo,
		osmRepo,
		scorer,
		matcher,
		cfg.Scoring,
		cfg.OSM.AlertRadiusM,
		log,
	)

	// 7. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)

	if cfg.Monitor.Enabled {
		monitor := worker.NewMonitor(scanUC, cfg.Monitor, log)
		workerManager.Register(worker.NewMonitorWorker(monitor, regionRepo, cfg.Monitor, log))
	}
	if cfg.Notifier.Enabled {
		workerManager.Register(worker.NewAlertNotifierWorker(alertRepo, notifierRepo, cfg.Notifier, log))
	}

	// 8. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
