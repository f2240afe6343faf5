package http

import (
	"context"
	"time"

	"github.com/PepeluiMoreno/sipi-etl/internal/config"
	"github.com/PepeluiMoreno/sipi-etl/internal/delivery/http/handler"
	"github.com/PepeluiMoreno/sipi-etl/internal/delivery/http/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"go.uber.org/zap"
)

// Server es el servidor HTTP sobre Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	regionHandler *handler.RegionHandler
	alertHandler  *handler.AlertHandler
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	regionHandler *handler.RegionHandler,
	alertHandler *handler.AlertHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "SIPI Region Monitor",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		regionHandler: regionHandler,
		alertHandler:  alertHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	api := s.app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Regiones
	api.Post("/regions", s.regionHandler.Create)
	api.Get("/regions", s.regionHandler.List)
	api.Get("/regions/:id", s.regionHandler.Get)
	api.Patch("/regions/:id/deactivate", s.regionHandler.Deactivate)
	api.Delete("/regions/:id", s.regionHandler.Delete)

	// Scan y monitoreo
	api.Post("/regions/:id/scan", s.regionHandler.Scan)
	api.Post("/regions/:id/monitor/start", s.regionHandler.StartMonitor)
	api.Post("/regions/:id/monitor/stop", s.regionHandler.StopMonitor)
	api.Get("/monitor", s.regionHandler.ListMonitored)

	// Alertas
	api.Get("/regions/:id/alerts", s.alertHandler.GetByRegion)
	api.Post("/alerts/notified", s.alertHandler.MarkNotified)
}

func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// App expone la app Fiber para tests
func (s *Server) App() *fiber.App {
	return s.app
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
