package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/go_shop/internal/domain"
	"github.com/shopcore/go_shop/internal/repository"
)

func newCatalogHandlerFixture(t *testing.T, itemCount int) *CatalogHandler {
	t.Helper()
	catalog := repository.NewCatalogMemoryRepository()
	for i := 1; i <= itemCount; i++ {
		require.NoError(t, catalog.Add(context.Background(), &domain.CatalogItem{
			Name:  fmt.Sprintf("Item %d", i),
			Price: decimal.New(int64(i), 0),
		}))
	}
	return NewCatalogHandler(catalog, 5*time.Second)
}

func TestListCatalog_DefaultPage(t *testing.T) {
	handler := newCatalogHandlerFixture(t, 12)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	rec := httptest.NewRecorder()
	handler.ListCatalog(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var dto PagedCatalogDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Len(t, dto.CatalogItems, 10)
	assert.Equal(t, 12, dto.TotalItems)
	assert.Equal(t, 2, dto.PageCount)
	assert.Equal(t, "Item 1", dto.CatalogItems[0].Name)
}

func TestListCatalog_SecondPage(t *testing.T) {
	handler := newCatalogHandlerFixture(t, 12)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog?skip=10&take=10", nil)
	rec := httptest.NewRecorder()
	handler.ListCatalog(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var dto PagedCatalogDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	require.Len(t, dto.CatalogItems, 2)
	assert.Equal(t, "Item 11", dto.CatalogItems[0].Name)
}

func TestListCatalog_InvalidPaging(t *testing.T) {
	handler := newCatalogHandlerFixture(t, 3)

	for _, query := range []string{"skip=-1", "take=0", "take=500", "take=abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog?"+query, nil)
		rec := httptest.NewRecorder()
		handler.ListCatalog(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %q", query)
	}
}

func TestGetCatalogItem_Success(t *testing.T) {
	handler := newCatalogHandlerFixture(t, 3)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/2", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("item_id", "2")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	handler.GetCatalogItem(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var dto CatalogItemDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, int64(2), dto.ID)
	assert.Equal(t, "Item 2", dto.Name)
}

func TestGetCatalogItem_NotFound(t *testing.T) {
	handler := newCatalogHandlerFixture(t, 3)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/99", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("item_id", "99")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	handler.GetCatalogItem(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
