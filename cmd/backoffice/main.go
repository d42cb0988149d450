package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	portssvc "github.com/mahligai/cargo_backoffice/internal/core/ports/services"
	"github.com/mahligai/cargo_backoffice/internal/core/services"
	"github.com/mahligai/cargo_backoffice/internal/handlers"
	"github.com/mahligai/cargo_backoffice/internal/middleware"
	"github.com/mahligai/cargo_backoffice/internal/platform/config"
	"github.com/mahligai/cargo_backoffice/internal/platform/notifier"
	"github.com/mahligai/cargo_backoffice/internal/repositories/database/pgsql"
	"github.com/mahligai/cargo_backoffice/internal/utils/accounting"
	"github.com/mahligai/cargo_backoffice/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Cargo Backoffice Approval API
// @version 1.0
// @description Transaction approval and double-entry journal posting engine.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire repositories and services over the shared pool
	repos := pgsql.NewRepositories(dbPool)
	changeNotifier := notifier.NewPgChangeNotifier(dbPool, logger, repos.WatchedTables())

	defaults := accounting.Defaults{
		ExpenseAccount: cfg.DefaultExpenseAccount,
		CashAccount:    cfg.DefaultCashAccount,
		RevenueAccount: cfg.DefaultRevenueAccount,
	}

	serviceContainer := &portssvc.ServiceContainer{
		Pending:  services.NewPendingService(repos.SourcePorts(), changeNotifier),
		Approval: services.NewApprovalService(repos.Approval, repos.SourcePorts(), defaults),
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	// Re-aggregate the pending list whenever a source table signals a change.
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	go watchPending(watchCtx, logger, serviceContainer.Pending)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations from the migrations
// directory using a temporary database/sql connection.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// watchPending subscribes to source-table change signals and logs each fresh
// aggregation. The HTTP list endpoint stays the canonical read; this keeps an
// operator-visible trail of queue movement.
func watchPending(ctx context.Context, logger *slog.Logger, pending portssvc.PendingSvcFacade) {
	watchLogger := logger.With(slog.String("component", "pending_watcher"))
	ctx = middleware.WithLogger(ctx, watchLogger)

	updates, err := pending.Watch(ctx)
	if err != nil {
		watchLogger.Error("Failed to start pending watcher", slog.String("error", err.Error()))
		return
	}

	for txns := range updates {
		watchLogger.Info("Pending queue refreshed", slog.Int("count", len(txns)))
	}
	watchLogger.Info("Pending watcher stopped")
}
