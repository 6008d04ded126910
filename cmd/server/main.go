package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qraksha/internal/adapters/cache"
	"qraksha/internal/adapters/http/middleware"
	"qraksha/internal/adapters/http/routes"
	"qraksha/internal/adapters/persistence/models"
	"qraksha/internal/adapters/persistence/repositories"
	"qraksha/internal/config"
	"qraksha/internal/core/services"
	"qraksha/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	_ "qraksha/docs" // Swagger docs
)

// @title QRaksha API
// @version 1.0
// @description Employee emergency profiles, QR codes and SOS alerts

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := models.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to auto migrate")
	}
	log.Info().Msg("database migration completed")

	if err := config.NewSeeder(db, cfg.Seed).Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to seed database")
	}

	profileCache := newCache(cfg)

	alertMonitor := services.NewAlertMonitor(repositories.NewAlertRepository(db), cfg)
	if err := alertMonitor.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start alert monitor")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "QRaksha API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)
	routes.Setup(app, db, cfg, profileCache)

	go func() {
		log.Info().Str("port", cfg.Port).Str("mode", cfg.AppMode).Msg("server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	alertMonitor.Stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	if err := profileCache.Close(); err != nil {
		log.Error().Err(err).Msg("error closing cache")
	}
	if err := config.CloseDatabase(); err != nil {
		log.Error().Err(err).Msg("error closing database")
	}
	log.Info().Msg("server stopped gracefully")
}

// newCache connects to Redis when configured, and falls back to the in-process cache
func newCache(cfg *config.Config) cache.Cache {
	if cfg.Cache.Driver == "redis" {
		rc, err := cache.NewRedisCache(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err == nil {
			log.Info().Str("addr", cfg.Redis.Addr()).Msg("redis cache connected")
			return rc
		}
		log.Warn().Err(err).Msg("redis unavailable, using in-memory cache")
	}
	return cache.NewMemoryCache()
}
