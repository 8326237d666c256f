package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stickerlabapp/stickerlab/internal/cache"
	"github.com/stickerlabapp/stickerlab/internal/catalog"
	"github.com/stickerlabapp/stickerlab/internal/config"
	"github.com/stickerlabapp/stickerlab/internal/db"
	"github.com/stickerlabapp/stickerlab/internal/email"
	"github.com/stickerlabapp/stickerlab/internal/fulfillment"
	"github.com/stickerlabapp/stickerlab/internal/handlers"
	"github.com/stickerlabapp/stickerlab/internal/logging"
	"github.com/stickerlabapp/stickerlab/internal/pricing"
	"github.com/stickerlabapp/stickerlab/internal/services"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	DB            *pgxpool.Pool
	CacheProvider cache.Provider
	Handlers      *handlers.Handlers

	logFile *os.File
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, logFile, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	database, err := db.Connect(startupCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	cacheProvider, err := cache.NewProvider(cache.Config{
		Provider:              cfg.CacheProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize cache provider: %w", err)
	}

	emailProvider, err := email.NewProvider(email.Config{
		Provider: cfg.EmailProvider,
		APIKey:   cfg.EmailAPIKey,
		From:     cfg.EmailFrom,
	})
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize email provider: %w", err)
	}

	catalogStore := db.NewCatalogStore(database)
	orderStore := db.NewOrderStore(database)

	parser := catalog.NewParser()
	validator := catalog.NewValidator()
	emailSender := services.NewStorefrontEmailSender(emailProvider, cfg.ShopName)

	catalogService := services.NewCatalogService(
		catalogStore,
		cacheProvider,
		parser,
		validator,
		logger.With("component", "catalog_service"),
	)
	checkoutService := services.NewCheckoutService(
		catalogService,
		orderStore,
		pricing.NewEngine(),
		emailSender,
		logger.With("component", "checkout_service"),
	)
	fulfillmentService := services.NewFulfillmentService(
		orderStore,
		fulfillment.NewMachine(),
		emailSender,
		logger.With("component", "fulfillment_service"),
		cfg.AdminOrderPageSize,
	)

	if cfg.CatalogFile != "" {
		if err := catalogService.SeedFromFile(startupCtx, cfg.CatalogFile); err != nil {
			closeCacheProvider(logger, cacheProvider)
			database.Close()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	h, err := handlers.New(handlers.Dependencies{
		Config:      cfg,
		DB:          database,
		Catalog:     catalogService,
		Checkout:    checkoutService,
		Fulfillment: fulfillmentService,
		Logger:      logger,
	})
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		Config:        cfg,
		Logger:        logger,
		DB:            database,
		CacheProvider: cacheProvider,
		Handlers:      h,
		logFile:       logFile,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.CacheProvider != nil {
		closeCacheProvider(a.Logger, a.CacheProvider)
	}
	if a.DB != nil {
		a.DB.Close()
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// newLogger builds the console handler per LOG_FORMAT; LOG_FILE tees a
// JSON copy of every record to disk.
func newLogger(cfg *config.Config) (*slog.Logger, *os.File, error) {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var console slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "json":
		console = slog.NewJSONHandler(os.Stdout, opts)
	default:
		console = tint.NewHandler(os.Stdout, &tint.Options{
			Level: cfg.LogLevel,
		})
	}

	if cfg.LogFile == "" {
		return slog.New(console), nil, nil
	}

	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	handler := logging.MultiHandler(console, slog.NewJSONHandler(file, opts))
	return slog.New(handler), file, nil
}

func closeCacheProvider(logger *slog.Logger, provider cache.Provider) {
	if provider == nil {
		return
	}
	if err := provider.Close(); err != nil && logger != nil {
		logger.Warn("failed to close cache provider", "error", err)
	}
}
