package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/shopcore/go_shop/internal/domain"
	"github.com/shopcore/go_shop/internal/repository"
	"github.com/shopcore/go_shop/internal/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps domain and service sentinels to HTTP statuses.
// Anything unrecognized is a store failure and surfaces as a 500; the shop
// performs no retries.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrBasketNotFound),
		errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrEmptyBasket),
		errors.Is(err, service.ErrUnknownCatalogItem),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrNegativeQuantity),
		errors.Is(err, domain.ErrEmptyOrder):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
