package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/SscSPs/exchange_service/internal/adapters/cache"
	"github.com/SscSPs/exchange_service/internal/adapters/rates/apilayer"
	"github.com/SscSPs/exchange_service/internal/adapters/rates/exchangerateapi"
	"github.com/SscSPs/exchange_service/internal/core/services"
	"github.com/SscSPs/exchange_service/internal/handlers"
	"github.com/SscSPs/exchange_service/internal/listeners"
	"github.com/SscSPs/exchange_service/internal/middleware"
	"github.com/SscSPs/exchange_service/internal/platform/bus"
	"github.com/SscSPs/exchange_service/internal/platform/config"
	"github.com/SscSPs/exchange_service/internal/platform/server"
	"github.com/SscSPs/exchange_service/internal/repositories/database/pgsql"
	"github.com/SscSPs/exchange_service/pkg/database"
	"github.com/gin-gonic/gin"
)

// @title Exchange Service API
// @version 1.0
// @description Fiat and gold exchange backed by an asynchronous ledger balance protocol.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("service", handlers.ExchangeServiceName))
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
	logger.Info("Database connection pool established.")

	if err := database.RunMigrations(cfg.DatabaseURL, migrationsSource(cfg, "exchange"), "exchange_schema_migrations", logger); err != nil {
		logger.Error("Failed to apply exchange migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.MessageBusDriver == config.BusMemory {
		// The in-process ledger keeps its accounts in the same database.
		if err := database.RunMigrations(cfg.DatabaseURL, migrationsSource(cfg, "ledger"), "ledger_schema_migrations", logger); err != nil {
			logger.Error("Failed to apply ledger migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	messageBus, closeBus, err := bus.Open(cfg, logger)
	if err != nil {
		logger.Error("Failed to open message bus", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := closeBus(); cerr != nil {
			logger.Error("Error closing message bus", slog.String("error", cerr.Error()))
		}
	}()

	// --- Rate providers behind the cache ---
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	rateCache, err := cache.NewRateCache(cfg.RateCacheMaxItems, cfg.RateCacheTTL)
	if err != nil {
		logger.Error("Failed to create rate cache", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer rateCache.Close()

	fiatRates := cache.NewCachedFiatRates(exchangerateapi.NewClient(httpClient, cfg.ExchangeRateAPIURL, cfg.ExchangeRateAPIKey), rateCache)
	goldPrices := cache.NewCachedGoldPrices(apilayer.NewClient(httpClient, cfg.APILayerURL, cfg.APILayerKey), rateCache)

	warmPairs, err := cache.ParseWarmPairs(cfg.RateWarmPairs)
	if err != nil {
		logger.Error("Invalid RATE_WARM_PAIRS", slog.String("error", err.Error()))
		os.Exit(1)
	}
	warmer := cache.NewWarmer(fiatRates, goldPrices, warmPairs, cfg.RateWarmInterval, logger)
	if err := warmer.Start(ctx); err != nil {
		logger.Error("Failed to start rate warmer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	container := services.NewServiceContainer(
		cfg,
		pgsql.NewRepositoryProvider(dbPool),
		services.RateProviders{Fiat: fiatRates, Gold: goldPrices},
		messageBus,
	)

	// --- Bus listeners ---
	go func() {
		if err := listeners.NewReplyListener(messageBus, container.Replies, logger).Run(ctx); err != nil {
			logger.Error("Reply listener stopped", slog.String("error", err.Error()))
			stop()
		}
	}()
	if container.Ledger != nil {
		go func() {
			if err := listeners.NewLedgerListener(messageBus, messageBus, container.Ledger, logger).Run(ctx); err != nil {
				logger.Error("Ledger listener stopped", slog.String("error", err.Error()))
				stop()
			}
		}()
	}

	// --- HTTP ---
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.CORS(cfg.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rateLimiter, err := middleware.NewMemoryLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, rateLimiter)

	if err := server.Start(ctx, cfg.Port, r, logger); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

// migrationsSource returns the migrate source URL of one migration set.
func migrationsSource(cfg *config.Config, set string) string {
	base := cfg.MigrationsPath
	if base == "" {
		base = "file://migrations"
	}
	return strings.TrimSuffix(base, "/") + "/" + set
}
