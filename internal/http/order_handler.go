package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopcore/go_shop/internal/domain"
	"github.com/shopcore/go_shop/internal/service"
)

type OrderHandler struct {
	orders  *service.OrderService
	baskets *service.BasketService
	timeout time.Duration
}

func NewOrderHandler(orders *service.OrderService, baskets *service.BasketService, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		baskets: baskets,
		timeout: timeout,
	}
}

type CreateOrderRequestDTO struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zip_code"`
}

// CreateOrder places an order from the buyer's current basket and then
// clears the basket. Clearing is a separate step after the order exists;
// if it fails the order still stands and the leftover basket is only a
// cosmetic problem.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	buyerID := getBuyerIDFromContext(r.Context())
	if buyerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing buyer identity")
		return
	}

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	basket, err := h.baskets.GetOrCreateBasket(ctx, buyerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	address := domain.NewAddress(req.Street, req.City, req.State, req.Country, req.ZipCode)
	order, err := h.orders.CreateOrderFromBasket(ctx, basket.ID, address)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.baskets.ClearBasket(ctx, basket.ID); err != nil {
		log.Printf("failed to clear basket %d after order %d: %v", basket.ID, order.ID, err)
	}

	respondJSON(w, http.StatusCreated, toOrderDetailDTO(order))
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	buyerID := getBuyerIDFromContext(r.Context())
	if buyerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing buyer identity")
		return
	}

	orders, err := h.orders.ListOrders(ctx, buyerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	summaries := make([]OrderSummaryDTO, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, toOrderSummaryDTO(order))
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	buyerID := getBuyerIDFromContext(r.Context())
	if buyerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing buyer identity")
		return
	}

	orderIDStr := chi.URLParam(r, "order_id")
	orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
	if err != nil || orderID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a positive integer")
		return
	}

	order, err := h.orders.GetOrder(ctx, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	// A missing order and another buyer's order look the same from outside.
	if order == nil || order.BuyerID != buyerID {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	respondJSON(w, http.StatusOK, toOrderDetailDTO(order))
}
