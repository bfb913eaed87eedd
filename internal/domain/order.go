package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyOrder   = errors.New("order must have at least one item")
	ErrInvalidUnits = errors.New("order item must have at least 1 unit")
)

// CatalogItemOrdered captures the catalog item's name and picture at the
// moment the order is placed, so that later catalog edits never change
// what a historical order shows.
type CatalogItemOrdered struct {
	CatalogItemID int64  `json:"catalog_item_id"`
	ProductName   string `json:"product_name"`
	PictureURI    string `json:"picture_uri"`
}

// OrderItem is an immutable order line owned by its order.
type OrderItem struct {
	ItemOrdered CatalogItemOrdered `json:"item_ordered"`
	UnitPrice   decimal.Decimal    `json:"unit_price"`
	Units       int                `json:"units"`
}

func NewOrderItem(itemOrdered CatalogItemOrdered, unitPrice decimal.Decimal, units int) (OrderItem, error) {
	if units < 1 {
		return OrderItem{}, ErrInvalidUnits
	}
	return OrderItem{
		ItemOrdered: itemOrdered,
		UnitPrice:   unitPrice,
		Units:       units,
	}, nil
}

// Order is an immutable record of a completed purchase. Construction is
// the only mutator; there is no way to add, remove or change items on an
// existing order.
type Order struct {
	ID            int64       `json:"id"`
	BuyerID       string      `json:"buyer_id"`
	OrderDate     time.Time   `json:"order_date"`
	ShipToAddress Address     `json:"ship_to_address"`
	Items         []OrderItem `json:"items"`
}

// NewOrder builds an order for a buyer. An order with no items is invalid
// and is rejected before anything is constructed. OrderDate is stamped
// here exactly once.
func NewOrder(buyerID string, shipTo Address, items []OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	copied := make([]OrderItem, len(items))
	copy(copied, items)

	return &Order{
		BuyerID:       buyerID,
		OrderDate:     time.Now().UTC(),
		ShipToAddress: shipTo,
		Items:         copied,
	}, nil
}

// Total is the decimal sum of unit price times units over all order lines.
// It is always recomputed, never stored.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Units))))
	}
	return total
}
