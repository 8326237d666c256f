package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/stickerlabapp/stickerlab/internal/config"
	"github.com/stickerlabapp/stickerlab/internal/handlers"
)

type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	handlers   *handlers.Handlers
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger, h *handlers.Handlers) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if h == nil {
		return nil, fmt.Errorf("handlers are required")
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		handlers: h,
	}

	router := s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Server) Run() error {
	s.logger.Info("server starting", "port", s.cfg.Port)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return nil
	}

	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) buildRouter() *mux.Router {
	h := s.handlers

	r := mux.NewRouter()
	r.Use(h.RequestLogger)
	r.Use(h.MetricsContext)
	r.Use(h.SecurityHeaders)

	r.HandleFunc("/health", h.Health).Methods("GET").Name("health")

	// Public storefront API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", h.ListProducts).Methods("GET").Name("api.products")
	api.HandleFunc("/products/{id}", h.GetProduct).Methods("GET").Name("api.products.get")
	api.HandleFunc("/categories", h.ListCategories).Methods("GET").Name("api.categories")
	api.HandleFunc("/materials", h.ListMaterials).Methods("GET").Name("api.materials")
	api.HandleFunc("/quotes", h.CreateQuote).Methods("POST").Name("api.quotes")
	api.HandleFunc("/orders", h.CreateOrder).Methods("POST").Name("api.orders.create")
	api.HandleFunc("/inquiries", h.CreateInquiry).Methods("POST").Name("api.inquiries")
	api.HandleFunc("/orders/{number}/tracking", h.GetOrderTracking).Methods("GET").Name("api.orders.tracking")

	// Back-office routes
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(h.RequireSameOrigin)
	admin.HandleFunc("/orders", h.AdminListOrders).Methods("GET").Name("admin.orders")
	admin.HandleFunc("/orders/{id}", h.AdminGetOrder).Methods("GET").Name("admin.orders.get")
	admin.HandleFunc("/orders/{id}/status", h.AdminUpdateOrderStatus).Methods("POST").Name("admin.orders.status")
	admin.HandleFunc("/orders/{id}/ship", h.AdminShipOrder).Methods("POST").Name("admin.orders.ship")
	admin.HandleFunc("/orders/{id}/tracking", h.AdminAppendTrackingEvent).Methods("POST").Name("admin.orders.tracking")
	admin.HandleFunc("/orders/{id}/delivered-event", h.AdminRecordDelivery).Methods("POST").Name("admin.orders.delivered_event")

	admin.HandleFunc("/products", h.AdminCreateProduct).Methods("POST").Name("admin.products.create")
	admin.HandleFunc("/products/{id}", h.AdminUpdateProduct).Methods("PUT").Name("admin.products.update")
	admin.HandleFunc("/products/{id}", h.AdminDeleteProduct).Methods("DELETE").Name("admin.products.delete")
	admin.HandleFunc("/products/{id}/sizes", h.AdminCreateSize).Methods("POST").Name("admin.sizes.create")
	admin.HandleFunc("/sizes/{id}", h.AdminUpdateSize).Methods("PUT").Name("admin.sizes.update")
	admin.HandleFunc("/sizes/{id}", h.AdminDeleteSize).Methods("DELETE").Name("admin.sizes.delete")
	admin.HandleFunc("/sizes/{id}/tiers", h.AdminCreateTier).Methods("POST").Name("admin.tiers.create")
	admin.HandleFunc("/sizes/{id}/tiers/{tierID}", h.AdminDeleteTier).Methods("DELETE").Name("admin.tiers.delete")
	admin.HandleFunc("/categories", h.AdminCreateCategory).Methods("POST").Name("admin.categories.create")
	admin.HandleFunc("/categories/{id}", h.AdminDeleteCategory).Methods("DELETE").Name("admin.categories.delete")
	admin.HandleFunc("/materials", h.AdminCreateMaterial).Methods("POST").Name("admin.materials.create")
	admin.HandleFunc("/materials/{id}", h.AdminDeleteMaterial).Methods("DELETE").Name("admin.materials.delete")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	})

	return r
}
