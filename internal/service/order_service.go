package service

import (
	"context"
	"fmt"
	"log"

	"github.com/shopcore/go_shop/internal/domain"
	"github.com/shopcore/go_shop/internal/events"
	"github.com/shopcore/go_shop/internal/repository"
	"github.com/shopcore/go_shop/internal/specification"
)

// OrderService converts baskets into orders and serves order history.
type OrderService struct {
	baskets   repository.Repository[domain.Basket]
	orders    repository.Repository[domain.Order]
	catalog   repository.Repository[domain.CatalogItem]
	publisher events.Publisher // optional
}

func NewOrderService(
	baskets repository.Repository[domain.Basket],
	orders repository.Repository[domain.Order],
	catalog repository.Repository[domain.CatalogItem],
	publisher events.Publisher,
) *OrderService {
	return &OrderService{
		baskets:   baskets,
		orders:    orders,
		catalog:   catalog,
		publisher: publisher,
	}
}

// CreateOrderFromBasket loads the basket with its items, resolves the
// current catalog data for every line, snapshots name and picture into
// order items carrying the basket's recorded price and quantity forward
// unchanged, and persists the new order. The basket is left untouched;
// clearing it is the caller's explicit next step.
func (s *OrderService) CreateOrderFromBasket(ctx context.Context, basketID int64, shipTo domain.Address) (*domain.Order, error) {
	basket, err := s.baskets.FirstOrDefault(ctx, specification.BasketWithItemsByID(basketID))
	if err != nil {
		return nil, fmt.Errorf("load basket: %w", err)
	}
	if basket == nil {
		return nil, ErrBasketNotFound
	}
	if len(basket.Items) == 0 {
		return nil, ErrEmptyBasket
	}

	ids := make([]int64, 0, len(basket.Items))
	for _, line := range basket.Items {
		ids = append(ids, line.CatalogItemID)
	}
	catalogItems, err := s.catalog.List(ctx, specification.CatalogItemsByIDs(ids...))
	if err != nil {
		return nil, fmt.Errorf("resolve catalog items: %w", err)
	}
	byID := make(map[int64]*domain.CatalogItem, len(catalogItems))
	for _, item := range catalogItems {
		byID[item.ID] = item
	}

	orderItems := make([]domain.OrderItem, 0, len(basket.Items))
	for _, line := range basket.Items {
		catalogItem, ok := byID[line.CatalogItemID]
		if !ok {
			return nil, fmt.Errorf("basket line %d: %w", line.ID, ErrUnknownCatalogItem)
		}

		snapshot := domain.CatalogItemOrdered{
			CatalogItemID: catalogItem.ID,
			ProductName:   catalogItem.Name,
			PictureURI:    catalogItem.PictureURI,
		}
		orderItem, err := domain.NewOrderItem(snapshot, line.UnitPrice, line.Quantity)
		if err != nil {
			return nil, err
		}
		orderItems = append(orderItems, orderItem)
	}

	order, err := domain.NewOrder(basket.BuyerID, shipTo, orderItems)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Add(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if s.publisher != nil {
		event := events.OrderPlaced{
			OrderID:   order.ID,
			BuyerID:   order.BuyerID,
			Total:     order.Total(),
			ItemCount: len(order.Items),
			PlacedAt:  order.OrderDate,
		}
		if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
			log.Printf("failed to publish order placed event for order %d: %v", order.ID, err)
		}
	}

	return order, nil
}

// GetOrder returns the order with its items, or nil when it does not
// exist.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.orders.FirstOrDefault(ctx, specification.OrderWithItemsByID(orderID))
}

// ListOrders returns the buyer's order history, newest first.
func (s *OrderService) ListOrders(ctx context.Context, buyerID string) ([]*domain.Order, error) {
	return s.orders.List(ctx, specification.OrdersByBuyer(buyerID))
}
