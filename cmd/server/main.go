package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopline/shop-backend/config"
	"github.com/shopline/shop-backend/internal/app/controller"
	"github.com/shopline/shop-backend/internal/app/repository"
	"github.com/shopline/shop-backend/internal/app/service"
	"github.com/shopline/shop-backend/internal/catalogio"
	"github.com/shopline/shop-backend/internal/db"
	"github.com/shopline/shop-backend/internal/middleware"
	"github.com/shopline/shop-backend/internal/router"
	"github.com/shopline/shop-backend/internal/scheduler"
	"github.com/shopline/shop-backend/internal/storage"
	"github.com/shopline/shop-backend/pkg/logger"
	redisClient "github.com/shopline/shop-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	format := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		format = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      format,
		EnableColor: true,
	})

	logger.Info("Starting storefront server", map[string]interface{}{
		"environment":  cfg.Server.Environment,
		"port":         cfg.Server.Port,
		"log_level":    logLevel,
		"stock_policy": cfg.Cart.StockPolicy,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(db.GetDB()); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if cfg.Server.Environment == "development" {
		if err := db.SeedDemoCatalog(db.GetDB()); err != nil {
			logger.Warn("Failed to seed demo catalog", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Session revocation is optional; without Redis logout only clears the cookie.
	var (
		revoker   service.TokenRevoker
		blacklist middleware.TokenBlacklist
	)
	if cfg.Redis.Enabled {
		client, err := redisClient.Connect(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, session revocation disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			sessions := redisClient.NewSessionBlacklist(client)
			defer sessions.Close()
			revoker = sessions
			blacklist = sessions
		}
	}

	images := storage.NewImageResolver(&cfg.S3)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	favouriteRepo := repository.NewFavouriteRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		revoker,
		cfg.JWT.Secret,
		cfg.JWT.SessionExpiry,
	)
	catalogService := service.NewCatalogService(categoryRepo, productRepo)
	cartService := service.NewCartService(cartRepo, productRepo, service.ParseStockPolicy(cfg.Cart.StockPolicy))
	favouriteService := service.NewFavouriteService(favouriteRepo, productRepo)

	// Initialize controllers
	sessionCookie := middleware.SessionCookie{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
	}
	authController := controller.NewAuthController(authService, sessionCookie)
	catalogController := controller.NewCatalogController(catalogService, images)
	cartController := controller.NewCartController(cartService, images)
	favouriteController := controller.NewFavouriteController(favouriteService, images)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, sessionCookie, authService, blacklist)

	r := router.NewRouter(
		authController,
		catalogController,
		cartController,
		favouriteController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	if cfg.Scheduler.CatalogExportCron != "" {
		exporter := catalogio.NewExporter(categoryRepo, productRepo)
		exportScheduler := scheduler.NewCatalogExportScheduler(
			exporter,
			cfg.Scheduler.CatalogExportCron,
			cfg.Scheduler.CatalogExportPath,
		)
		if err := exportScheduler.Start(); err != nil {
			logger.Error("Failed to start catalog export scheduler", err, map[string]interface{}{
				"cron": cfg.Scheduler.CatalogExportCron,
			})
		} else {
			defer exportScheduler.Stop()
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
