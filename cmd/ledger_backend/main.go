package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/SscSPs/exchange_service/internal/adapters/messaging/rabbitmq"
	"github.com/SscSPs/exchange_service/internal/core/ports/messaging"
	"github.com/SscSPs/exchange_service/internal/core/services"
	"github.com/SscSPs/exchange_service/internal/handlers"
	"github.com/SscSPs/exchange_service/internal/listeners"
	"github.com/SscSPs/exchange_service/internal/middleware"
	"github.com/SscSPs/exchange_service/internal/platform/config"
	"github.com/SscSPs/exchange_service/internal/platform/server"
	"github.com/SscSPs/exchange_service/internal/repositories/database/pgsql"
	"github.com/SscSPs/exchange_service/pkg/database"
	"github.com/gin-gonic/gin"
)

const serviceName = "ledger-service"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("service", serviceName))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	source := "file://migrations/ledger"
	if cfg.MigrationsPath != "" {
		source = strings.TrimSuffix(cfg.MigrationsPath, "/") + "/ledger"
	}
	if err := database.RunMigrations(cfg.DatabaseURL, source, "ledger_schema_migrations", logger); err != nil {
		logger.Error("Failed to apply ledger migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The ledger always talks to the broker; the memory bus only exists inside the exchange process.
	broker, err := rabbitmq.Dial(cfg.AMQPURL, messaging.Routes(), logger)
	if err != nil {
		logger.Error("Failed to connect to message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)
	ledger := services.NewLedgerService(repos.AccountRepo)

	go func() {
		if err := listeners.NewLedgerListener(broker, broker, ledger, logger).Run(ctx); err != nil {
			logger.Error("Ledger listener stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	handlers.RegisterHealthRoutes(r, serviceName)

	if err := server.Start(ctx, cfg.Port, r, logger); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Ledger stopped")
}
