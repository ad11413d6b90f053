package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fintrack/internal/api"
	"fintrack/internal/api/handlers"
	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/pkg/auth"
	"fintrack/pkg/cache"
	"fintrack/pkg/config"
	"fintrack/pkg/grpcserver"
	"fintrack/pkg/logger"
	"fintrack/pkg/marketdata"
	"fintrack/pkg/postgres"

	"go.uber.org/zap"
)

// @title fintrack API
// @version 1.0
// @description Personal finance ledger: wallets, transactions, recurring templates, budgets, goals, debts and assets.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

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
	appLogger.Info("Starting fintrack", zap.String("version", cfg.Server.Version), zap.String("env", cfg.Server.Env))

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db, appLogger); err != nil {
			appLogger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Quote cache is optional
	rdb, err := cache.NewRedis(ctx, &cfg.Redis, appLogger)
	if err != nil {
		appLogger.Warn("Redis unavailable, quotes will not be cached", zap.Error(err))
	}
	var quoteCache *cache.JSONCache
	if rdb != nil {
		defer rdb.Close()
		quoteCache = cache.NewJSONCache(rdb, "fintrack:quote:", cfg.Redis.QuoteTTL)
	}
	quotes := marketdata.NewCachingProvider(marketdata.NewClient(&cfg.Market, appLogger), quoteCache, appLogger)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	walletRepo := repository.NewWalletRepository(db, appLogger)
	categoryRepo := repository.NewCategoryRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)
	recurringRepo := repository.NewRecurringRepository(db, appLogger)
	budgetRepo := repository.NewBudgetRepository(db, appLogger)
	goalRepo := repository.NewGoalRepository(db, appLogger)
	debtRepo := repository.NewDebtRepository(db, appLogger)
	assetRepo := repository.NewAssetRepository(db, appLogger)
	tagRepo := repository.NewTagRepository(db, appLogger)
	taskRepo := repository.NewTaskRepository(db, appLogger)
	attachmentRepo := repository.NewAttachmentRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(userRepo, categoryRepo, jwtManager, appLogger)
	walletService := service.NewWalletService(walletRepo, appLogger)
	categoryService := service.NewCategoryService(categoryRepo, appLogger)
	txService := service.NewTransactionService(txRepo, walletRepo, categoryRepo, appLogger)
	recurringService := service.NewRecurringService(recurringRepo, walletRepo, categoryRepo, &cfg.Cron, appLogger)
	budgetService := service.NewBudgetService(budgetRepo, txRepo, categoryRepo, appLogger)
	goalService := service.NewGoalService(goalRepo, appLogger)
	debtService := service.NewDebtService(debtRepo, appLogger)
	assetService := service.NewAssetService(assetRepo, quotes, appLogger)
	tagService := service.NewTagService(tagRepo, appLogger)
	taskService := service.NewTaskService(taskRepo, appLogger)
	reportService := service.NewReportService(txRepo, walletRepo, budgetService, appLogger)
	attachmentService := service.NewAttachmentService(attachmentRepo, txRepo, cfg.Upload.Dir, int64(cfg.Upload.MaxSizeMB)<<20, appLogger)

	// Initialize handlers
	h := &api.Handlers{
		Auth:         handlers.NewAuthHandler(authService, cfg.JWT.CookieSecure, appLogger),
		Wallets:      handlers.NewWalletHandler(walletService, appLogger),
		Categories:   handlers.NewCategoryHandler(categoryService, appLogger),
		Transactions: handlers.NewTransactionHandler(txService, attachmentService, appLogger),
		Recurring:    handlers.NewRecurringHandler(recurringService, appLogger),
		Budgets:      handlers.NewBudgetHandler(budgetService, appLogger),
		Goals:        handlers.NewGoalHandler(goalService, appLogger),
		Debts:        handlers.NewDebtHandler(debtService, appLogger),
		Assets:       handlers.NewAssetHandler(assetService, appLogger),
		Tags:         handlers.NewTagHandler(tagService, appLogger),
		Tasks:        handlers.NewTaskHandler(taskService, appLogger),
		Reports:      handlers.NewReportHandler(reportService, appLogger),
	}

	// Setup router
	app := api.SetupRouter(cfg, h, jwtManager, db.Ping, appLogger)

	var health *grpcserver.HealthServer
	if cfg.GRPC.HealthAddr != "" {
		health = grpcserver.NewHealthServer(cfg.GRPC.HealthAddr, appLogger)
		if err := health.Start(); err != nil {
			appLogger.Fatal("Failed to start gRPC health server", zap.Error(err))
		}
		health.SetServing(true)
	}

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
	if health != nil {
		health.SetServing(false)
		health.Stop()
	}
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
