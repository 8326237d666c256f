package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/stickerlabapp/stickerlab/internal/models"
)

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if products == nil {
		products = []*models.Product{}
	}

	h.writeJSON(w, r, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, product)
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}

	h.writeJSON(w, r, http.StatusOK, categories)
}

func (h *Handlers) ListMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := h.catalog.ListMaterials(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if materials == nil {
		materials = []models.Material{}
	}

	h.writeJSON(w, r, http.StatusOK, materials)
}
