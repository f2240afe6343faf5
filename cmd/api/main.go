package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PepeluiMoreno/sipi-etl/internal/config"
	httpDelivery "github.com/PepeluiMoreno/sipi-etl/internal/delivery/http"
	"github.com/PepeluiMoreno/sipi-etl/internal/delivery/http/handler"
	"github.com/PepeluiMoreno/sipi-etl/internal/infrastructure/nominatim"
	"github.com/PepeluiMoreno/sipi-etl/internal/infrastructure/overpass"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/logger"
	"github.com/PepeluiMoreno/sipi-etl/internal/repository/cache"
	"github.com/PepeluiMoreno/sipi-etl/internal/repository/postgres"
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

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting SIPI Region Monitor API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

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

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize repositories
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
	geocodeRepo := nominatim.NewNominatimClient(&cfg.Nominatim, log)

	log.Info("Repositories initialized")

	// 7. Initialize use cases
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

	regionUC := usecase.NewRegionUseCase(regionRepo, alertRepo, geocodeRepo, log)

	monitor := worker.NewMonitor(scanUC, cfg.Monitor, log)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP handlers and server
	regionHandler := handler.NewRegionHandler(regionUC, scanUC, monitor, log)
	alertHandler := handler.NewAlertHandler(regionUC, log)

	server := httpDelivery.NewServer(cfg, log, regionHandler, alertHandler)

	log.Info("HTTP server initialized")

	// 9. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	monitor.StopAll()

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
