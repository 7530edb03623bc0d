package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/fintrackhq/fintrack_app/internal/core/ports"
	"github.com/fintrackhq/fintrack_app/internal/core/services"
	"github.com/fintrackhq/fintrack_app/internal/handlers"
	"github.com/fintrackhq/fintrack_app/internal/middleware"
	"github.com/fintrackhq/fintrack_app/internal/platform/config"
	"github.com/fintrackhq/fintrack_app/internal/repositories/database/pgsql"
	"github.com/fintrackhq/fintrack_app/pkg/database"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Database migrations applied")
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	// Probe the live schema once; the repositories adapt to whatever
	// table/column variants exist.
	repos, err := pgsql.NewRepositoryProvider(ctx, dbPool)
	if err != nil {
		logger.Error("Failed to resolve database schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer := &ports.ServiceContainer{
		Account:     services.NewAccountService(repos.AccountRepo),
		Category:    services.NewCategoryService(repos.CategoryRepo, repos.TransactionRepo),
		Transaction: services.NewTransactionService(repos.TransactionRepo, repos.AccountRepo, repos.CategoryRepo),
		Budget:      services.NewBudgetService(repos.BudgetRepo, repos.CategoryRepo, repos.TransactionRepo),
		Goal:        services.NewGoalService(repos.GoalRepo, repos.ContributionRepo, repos.AccountRepo),
		User:        services.NewUserService(repos.UserRepo, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer),
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
