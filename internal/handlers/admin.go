package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/stickerlabapp/stickerlab/internal/models"
	"github.com/stickerlabapp/stickerlab/internal/services"
)

// Order management

func (h *Handlers) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	var statusFilter *models.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.OrderStatus(raw)
		statusFilter = &status
	}

	orders, err := h.fulfillment.ListOrders(r.Context(), statusFilter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}

	h.writeJSON(w, r, http.StatusOK, orders)
}

func (h *Handlers) AdminGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromRequest(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	order, err := h.fulfillment.GetOrder(r.Context(), orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, order)
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

func (h *Handlers) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromRequest(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	order, err := h.fulfillment.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, order)
}

type shipOrderRequest struct {
	ShippingProvider  string `json:"shipping_provider"`
	CustomCarrier     string `json:"custom_carrier"`
	TrackingNumber    string `json:"tracking_number"`
	EstimatedDelivery string `json:"estimated_delivery"`
}

func (h *Handlers) AdminShipOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromRequest(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	var req shipOrderRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	input := services.ShipOrderInput{
		ShippingProvider: req.ShippingProvider,
		CustomCarrier:    req.CustomCarrier,
		TrackingNumber:   req.TrackingNumber,
	}
	if req.EstimatedDelivery != "" {
		estimated, err := time.Parse("2006-01-02", req.EstimatedDelivery)
		if err != nil {
			h.writeBadRequest(w, r, fmt.Errorf("invalid estimated_delivery: %w", err))
			return
		}
		input.EstimatedDelivery = &estimated
	}

	order, err := h.fulfillment.ShipOrder(r.Context(), orderID, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, order)
}

type trackingEventRequest struct {
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time"`
	Status   string `json:"status" validate:"required"`
	Location string `json:"location"`
}

func (h *Handlers) AdminAppendTrackingEvent(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromRequest(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	var req trackingEventRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	event, err := h.fulfillment.AppendTrackingEvent(r.Context(), orderID, services.TrackingEventInput{
		Date:     req.Date,
		Time:     req.Time,
		Status:   req.Status,
		Location: req.Location,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, event)
}

type deliveredEventRequest struct {
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time"`
	Location string `json:"location"`
}

func (h *Handlers) AdminRecordDelivery(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromRequest(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	var req deliveredEventRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	order, err := h.fulfillment.RecordDelivery(r.Context(), orderID, services.TrackingEventInput{
		Date:     req.Date,
		Time:     req.Time,
		Location: req.Location,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, order)
}

// Catalog management

type productRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	CategoryID  uuid.UUID       `json:"category_id"`
	MaterialID  uuid.UUID       `json:"material_id"`
	Active      bool            `json:"active"`
}

func (h *Handlers) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		CategoryID:  req.CategoryID,
		MaterialID:  req.MaterialID,
		Active:      req.Active,
	}
	if err := h.catalog.CreateProduct(r.Context(), product); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, product)
}

func (h *Handlers) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	var req productRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	product := &models.Product{
		ID:          productID,
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		CategoryID:  req.CategoryID,
		MaterialID:  req.MaterialID,
		Active:      req.Active,
	}
	if err := h.catalog.UpdateProduct(r.Context(), product); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, product)
}

func (h *Handlers) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), productID); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type sizeRequest struct {
	Name         string           `json:"name" validate:"required"`
	Width        *decimal.Decimal `json:"width"`
	Height       *decimal.Decimal `json:"height"`
	PricePerUnit decimal.Decimal  `json:"price_per_unit" validate:"required"`
	IsCustom     bool             `json:"is_custom"`
	MinQuantity  int              `json:"min_quantity"`
	MaxQuantity  int              `json:"max_quantity"`
	Active       bool             `json:"active"`
	DisplayOrder int              `json:"display_order"`
}

func (h *Handlers) AdminCreateSize(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	var req sizeRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	size := &models.Size{
		ProductID:    productID,
		Name:         req.Name,
		Width:        req.Width,
		Height:       req.Height,
		PricePerUnit: req.PricePerUnit,
		IsCustom:     req.IsCustom,
		MinQuantity:  req.MinQuantity,
		MaxQuantity:  req.MaxQuantity,
		Active:       req.Active,
		DisplayOrder: req.DisplayOrder,
	}
	if err := h.catalog.CreateSize(r.Context(), size); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, size)
}

func (h *Handlers) AdminUpdateSize(w http.ResponseWriter, r *http.Request) {
	sizeID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	existing, err := h.catalog.GetSize(r.Context(), sizeID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req sizeRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	size := &models.Size{
		ID:           sizeID,
		ProductID:    existing.ProductID,
		Name:         req.Name,
		Width:        req.Width,
		Height:       req.Height,
		PricePerUnit: req.PricePerUnit,
		IsCustom:     req.IsCustom,
		MinQuantity:  req.MinQuantity,
		MaxQuantity:  req.MaxQuantity,
		Active:       req.Active,
		DisplayOrder: req.DisplayOrder,
	}
	if err := h.catalog.UpdateSize(r.Context(), size); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, size)
}

func (h *Handlers) AdminDeleteSize(w http.ResponseWriter, r *http.Request) {
	sizeID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	if err := h.catalog.DeleteSize(r.Context(), sizeID); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type tierRequest struct {
	Quantity           int              `json:"quantity" validate:"required,gt=0"`
	PricePerUnit       decimal.Decimal  `json:"price_per_unit" validate:"required"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	DisplayOrder       int              `json:"display_order"`
}

func (h *Handlers) AdminCreateTier(w http.ResponseWriter, r *http.Request) {
	sizeID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	var req tierRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	tier := &models.QuantityTier{
		SizeID:             sizeID,
		Quantity:           req.Quantity,
		PricePerUnit:       req.PricePerUnit,
		DiscountPercentage: req.DiscountPercentage,
		DisplayOrder:       req.DisplayOrder,
	}
	if err := h.catalog.CreateTier(r.Context(), tier); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, tier)
}

func (h *Handlers) AdminDeleteTier(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sizeID, err := uuid.Parse(vars["id"])
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}
	tierID, err := uuid.Parse(vars["tierID"])
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	if err := h.catalog.DeleteTier(r.Context(), sizeID, tierID); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug" validate:"required"`
}

func (h *Handlers) AdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := h.catalog.CreateCategory(r.Context(), category); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, category)
}

func (h *Handlers) AdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	if err := h.catalog.DeleteCategory(r.Context(), categoryID); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type materialRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (h *Handlers) AdminCreateMaterial(w http.ResponseWriter, r *http.Request) {
	var req materialRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	material := &models.Material{Name: req.Name, Description: req.Description}
	if err := h.catalog.CreateMaterial(r.Context(), material); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, material)
}

func (h *Handlers) AdminDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	materialID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	if err := h.catalog.DeleteMaterial(r.Context(), materialID); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func orderIDFromRequest(r *http.Request) (uuid.UUID, error) {
	orderID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid order id: %w", err)
	}
	return orderID, nil
}
