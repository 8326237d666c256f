package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/stickerlabapp/stickerlab/internal/services"
)

type quoteRequest struct {
	SizeID       uuid.UUID        `json:"size_id" validate:"required"`
	Quantity     int              `json:"quantity" validate:"required"`
	CustomWidth  *decimal.Decimal `json:"custom_width"`
	CustomHeight *decimal.Decimal `json:"custom_height"`
}

func (h *Handlers) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	quote, err := h.checkout.Quote(r.Context(), services.QuoteInput{
		SizeID:       req.SizeID,
		Quantity:     req.Quantity,
		CustomWidth:  req.CustomWidth,
		CustomHeight: req.CustomHeight,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, quote)
}

type placeOrderRequest struct {
	CustomerName    string           `json:"customer_name" validate:"required"`
	CustomerEmail   string           `json:"customer_email" validate:"required,email"`
	CustomerPhone   string           `json:"customer_phone"`
	ShippingAddress string           `json:"shipping_address" validate:"required"`
	ProductID       uuid.UUID        `json:"product_id" validate:"required"`
	SizeID          uuid.UUID        `json:"size_id" validate:"required"`
	Quantity        int              `json:"quantity" validate:"required"`
	CustomWidth     *decimal.Decimal `json:"custom_width"`
	CustomHeight    *decimal.Decimal `json:"custom_height"`
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), services.PlaceOrderInput{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		ProductID:       req.ProductID,
		SizeID:          req.SizeID,
		Quantity:        req.Quantity,
		CustomWidth:     req.CustomWidth,
		CustomHeight:    req.CustomHeight,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, order)
}

type inquiryRequest struct {
	CustomerName    string           `json:"customer_name" validate:"required"`
	CustomerEmail   string           `json:"customer_email" validate:"required,email"`
	CustomerPhone   string           `json:"customer_phone"`
	ShippingAddress string           `json:"shipping_address"`
	ProductID       uuid.UUID        `json:"product_id" validate:"required"`
	SizeID          uuid.UUID        `json:"size_id" validate:"required"`
	Quantity        int              `json:"quantity"`
	CustomWidth     *decimal.Decimal `json:"custom_width"`
	CustomHeight    *decimal.Decimal `json:"custom_height"`
}

func (h *Handlers) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	var req inquiryRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	order, err := h.checkout.CreateInquiry(r.Context(), services.InquiryInput{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		ProductID:       req.ProductID,
		SizeID:          req.SizeID,
		Quantity:        req.Quantity,
		CustomWidth:     req.CustomWidth,
		CustomHeight:    req.CustomHeight,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, order)
}

func (h *Handlers) GetOrderTracking(w http.ResponseWriter, r *http.Request) {
	orderNumber := mux.Vars(r)["number"]

	info, err := h.fulfillment.GetTracking(r.Context(), orderNumber)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, info)
}
