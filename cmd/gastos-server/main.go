package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gastos-server/internal/api"
	"gastos-server/internal/api/handlers"
	"gastos-server/internal/cache"
	"gastos-server/internal/repository"
	"gastos-server/internal/service"
	"gastos-server/pkg/auth"
	"gastos-server/pkg/config"
	"gastos-server/pkg/logger"
	"gastos-server/pkg/postgres"

	"go.uber.org/zap"
)

// @title Gastos API
// @version 1.0
// @description Expense tracking service: billing periods, installments, recurring expenses, dashboards and PDF reports.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting gastos service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	expenseRepo := repository.NewExpenseRepository(db, appLogger)
	recurringRepo := repository.NewRecurringRepository(db, appLogger)

	// Read cache for dashboard aggregates
	readCache, err := cache.New()
	if err != nil {
		appLogger.Fatal("Failed to initialize cache", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	expenseService := service.NewExpenseService(expenseRepo, readCache, cfg.Upload.Dir, appLogger)
	recurringService := service.NewRecurringService(recurringRepo, readCache, appLogger)
	dashboardService := service.NewDashboardService(expenseRepo, readCache, appLogger)
	reportService := service.NewReportService(expenseService, dashboardService, appLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	expenseHandler := handlers.NewExpenseHandler(expenseService, appLogger)
	recurringHandler := handlers.NewRecurringHandler(recurringService, appLogger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, reportService, appLogger)

	// Setup router
	app := api.SetupRouter(authHandler, expenseHandler, recurringHandler, dashboardHandler, jwtManager, cfg.Upload.Dir, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
