package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stickerlabapp/stickerlab/internal/config"
	"github.com/stickerlabapp/stickerlab/internal/logging"
	"github.com/stickerlabapp/stickerlab/internal/services"
)

const maxRequestBodyBytes = 1 << 20 // 1 MB

// Handlers provides the HTTP handlers for the storefront API and the
// back-office surface.
type Handlers struct {
	config      *config.Config
	db          *pgxpool.Pool
	catalog     *services.CatalogService
	checkout    *services.CheckoutService
	fulfillment *services.FulfillmentService
	validate    *validator.Validate
	logger      *slog.Logger
}

type Dependencies struct {
	Config      *config.Config
	DB          *pgxpool.Pool
	Catalog     *services.CatalogService
	Checkout    *services.CheckoutService
	Fulfillment *services.FulfillmentService
	Logger      *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("handlers dependencies: db is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("handlers dependencies: catalog service is required")
	}
	if deps.Checkout == nil {
		return nil, fmt.Errorf("handlers dependencies: checkout service is required")
	}
	if deps.Fulfillment == nil {
		return nil, fmt.Errorf("handlers dependencies: fulfillment service is required")
	}

	return &Handlers{
		config:      deps.Config,
		db:          deps.DB,
		catalog:     deps.Catalog,
		checkout:    deps.Checkout,
		fulfillment: deps.Fulfillment,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger.With("component", "handlers"),
	}, nil
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)

	if err := h.db.Ping(ctx); err != nil {
		logger.Error("database health check failed", "error", err)
		http.Error(w, "Database unhealthy", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		logger.Error("failed to encode health response", "error", err)
	}
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}
