package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopcore/go_shop/internal/service"
)

type BasketHandler struct {
	baskets *service.BasketService
	timeout time.Duration
}

func NewBasketHandler(baskets *service.BasketService, timeout time.Duration) *BasketHandler {
	return &BasketHandler{
		baskets: baskets,
		timeout: timeout,
	}
}

type AddBasketItemRequestDTO struct {
	CatalogItemID int64 `json:"catalog_item_id"`
	Quantity      int   `json:"quantity"`
}

type UpdateQuantitiesRequestDTO struct {
	// Quantities maps basket item id to the new quantity. Zero removes the
	// line.
	Quantities map[int64]int `json:"quantities"`
}

// GetBasket returns the buyer's basket, creating an empty one on first
// access.
func (h *BasketHandler) GetBasket(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	buyerID := getBuyerIDFromContext(r.Context())
	if buyerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing buyer identity")
		return
	}

	basket, err := h.baskets.GetOrCreateBasket(ctx, buyerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toBasketDTO(basket))
}

func (h *BasketHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	buyerID := getBuyerIDFromContext(r.Context())
	if buyerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing buyer identity")
		return
	}

	var req AddBasketItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.CatalogItemID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_catalog_item_id", "catalog_item_id must be positive")
		return
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	basket, err := h.baskets.AddItemToBasket(ctx, buyerID, req.CatalogItemID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toBasketDTO(basket))
}

// UpdateQuantities applies a batch of quantity changes to the buyer's own
// basket and drops lines set to zero.
func (h *BasketHandler) UpdateQuantities(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	buyerID := getBuyerIDFromContext(r.Context())
	if buyerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing buyer identity")
		return
	}

	var req UpdateQuantitiesRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	basket, err := h.baskets.GetOrCreateBasket(ctx, buyerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	basket, err = h.baskets.SetQuantities(ctx, basket.ID, req.Quantities)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toBasketDTO(basket))
}
