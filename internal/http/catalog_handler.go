package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopcore/go_shop/internal/domain"
	"github.com/shopcore/go_shop/internal/repository"
	"github.com/shopcore/go_shop/internal/specification"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type CatalogHandler struct {
	catalog repository.Repository[domain.CatalogItem]
	timeout time.Duration
}

func NewCatalogHandler(catalog repository.Repository[domain.CatalogItem], timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

// ListCatalog serves one page of the catalog ordered by id, with the total
// count for client-side pagination.
func (h *CatalogHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	skip := queryInt(r, "skip", 0)
	take := queryInt(r, "take", defaultPageSize)
	if skip < 0 || take < 1 || take > maxPageSize {
		respondError(w, http.StatusBadRequest, "invalid_paging", "skip must be >= 0 and take between 1 and 100")
		return
	}

	paged := specification.CatalogItemsPaged(skip, take)
	items, err := h.catalog.List(ctx, paged)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	total, err := h.catalog.Count(ctx, paged)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	dto := PagedCatalogDTO{
		CatalogItems: make([]CatalogItemDTO, 0, len(items)),
		PageCount:    (total + take - 1) / take,
		TotalItems:   total,
	}
	for _, item := range items {
		dto.CatalogItems = append(dto.CatalogItems, toCatalogItemDTO(item))
	}
	respondJSON(w, http.StatusOK, dto)
}

func (h *CatalogHandler) GetCatalogItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemIDStr := chi.URLParam(r, "item_id")
	itemID, err := strconv.ParseInt(itemIDStr, 10, 64)
	if err != nil || itemID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must be a positive integer")
		return
	}

	item, err := h.catalog.GetByID(ctx, itemID)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "catalog item not found")
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCatalogItemDTO(item))
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}
