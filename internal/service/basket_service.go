package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/shopcore/go_shop/internal/domain"
	"github.com/shopcore/go_shop/internal/repository"
	"github.com/shopcore/go_shop/internal/specification"
)

// BasketService carries the basket workflows: get-or-create per buyer,
// adding items at the catalog's current price, and batch quantity updates.
// Every workflow loads a fresh aggregate, mutates it and persists it
// within the same call; nothing is shared across requests.
type BasketService struct {
	baskets repository.Repository[domain.Basket]
	catalog repository.Repository[domain.CatalogItem]
	sfg     singleflight.Group // collapses concurrent first-touch creates per buyer
}

func NewBasketService(baskets repository.Repository[domain.Basket], catalog repository.Repository[domain.CatalogItem]) *BasketService {
	return &BasketService{
		baskets: baskets,
		catalog: catalog,
	}
}

// GetOrCreateBasket returns the buyer's basket with its items, creating an
// empty one on first access. Concurrent first-touch calls for one buyer
// collapse into a single flight, but the flight shares only the basket id;
// every caller loads its own aggregate instance afterwards, so no basket
// is ever mutated by two requests through a shared pointer.
func (s *BasketService) GetOrCreateBasket(ctx context.Context, buyerID string) (*domain.Basket, error) {
	v, err, _ := s.sfg.Do(buyerID, func() (interface{}, error) {
		basket, err := s.baskets.FirstOrDefault(ctx, specification.BasketWithItems(buyerID))
		if err != nil {
			return nil, fmt.Errorf("load basket for buyer: %w", err)
		}
		if basket == nil {
			basket = domain.NewBasket(buyerID)
			if err := s.baskets.Add(ctx, basket); err != nil {
				return nil, fmt.Errorf("create basket for buyer: %w", err)
			}
		}
		return basket.ID, nil
	})
	if err != nil {
		return nil, err
	}

	basketID := v.(int64)
	basket, err := s.baskets.GetByID(ctx, basketID)
	if err != nil {
		return nil, fmt.Errorf("load basket %d: %w", basketID, err)
	}
	return basket, nil
}

// AddItemToBasket adds quantity units of a catalog item to the buyer's
// basket. The catalog is authoritative for the price: the current catalog
// price is recorded when the line is first created, and kept on repeat
// adds.
func (s *BasketService) AddItemToBasket(ctx context.Context, buyerID string, catalogItemID int64, quantity int) (*domain.Basket, error) {
	item, err := s.catalog.GetByID(ctx, catalogItemID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnknownCatalogItem
	}
	if err != nil {
		return nil, fmt.Errorf("resolve catalog item: %w", err)
	}

	basket, err := s.GetOrCreateBasket(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	if err := basket.AddItem(item.ID, item.Price, quantity); err != nil {
		return nil, err
	}
	if err := s.baskets.Update(ctx, basket); err != nil {
		return nil, fmt.Errorf("persist basket: %w", err)
	}
	return basket, nil
}

// SetQuantities applies a batch of basketItemID to quantity updates, then
// drops the lines that reached zero. Unknown line ids are ignored, the way
// a stale form post should be; negative quantities abort the whole batch
// before anything is persisted.
func (s *BasketService) SetQuantities(ctx context.Context, basketID int64, quantities map[int64]int) (*domain.Basket, error) {
	basket, err := s.baskets.FirstOrDefault(ctx, specification.BasketWithItemsByID(basketID))
	if err != nil {
		return nil, fmt.Errorf("load basket: %w", err)
	}
	if basket == nil {
		return nil, ErrBasketNotFound
	}

	for itemID, quantity := range quantities {
		err := basket.SetItemQuantity(itemID, quantity)
		if errors.Is(err, domain.ErrItemNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
	}
	basket.RemoveEmptyItems()

	if err := s.baskets.Update(ctx, basket); err != nil {
		return nil, fmt.Errorf("persist basket: %w", err)
	}
	return basket, nil
}

// ClearBasket removes every line from the basket. The aggregate itself is
// kept; baskets are never deleted.
func (s *BasketService) ClearBasket(ctx context.Context, basketID int64) error {
	basket, err := s.baskets.FirstOrDefault(ctx, specification.BasketWithItemsByID(basketID))
	if err != nil {
		return fmt.Errorf("load basket: %w", err)
	}
	if basket == nil {
		return ErrBasketNotFound
	}

	basket.Clear()
	if err := s.baskets.Update(ctx, basket); err != nil {
		return fmt.Errorf("persist basket: %w", err)
	}
	return nil
}
