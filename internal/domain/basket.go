package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
	ErrItemNotFound     = errors.New("item not found in basket")
)

// BasketItem is a single line in a basket. It is owned by its basket and
// has no meaning outside of it.
type BasketItem struct {
	ID            int64           `json:"id"`
	CatalogItemID int64           `json:"catalog_item_id"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
}

// Basket is a buyer's shopping basket. It holds at most one line per
// catalog item; adding the same item again increases the line's quantity.
type Basket struct {
	ID      int64        `json:"id"`
	BuyerID string       `json:"buyer_id"`
	Items   []BasketItem `json:"items"`
}

func NewBasket(buyerID string) *Basket {
	return &Basket{BuyerID: buyerID}
}

// AddItem adds quantity units of a catalog item to the basket. If a line
// for that catalog item already exists its quantity grows and the price
// recorded when the line was first added is kept; the new price argument
// is ignored in that case.
func (b *Basket) AddItem(catalogItemID int64, unitPrice decimal.Decimal, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	for i := range b.Items {
		if b.Items[i].CatalogItemID == catalogItemID {
			b.Items[i].Quantity += quantity
			return nil
		}
	}

	b.Items = append(b.Items, BasketItem{
		CatalogItemID: catalogItemID,
		UnitPrice:     unitPrice,
		Quantity:      quantity,
	})
	return nil
}

// SetItemQuantity sets the quantity of the line identified by basketItemID.
// Zero is allowed and marks the line for removal by RemoveEmptyItems;
// negative quantities are rejected before any state changes.
func (b *Basket) SetItemQuantity(basketItemID int64, quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}

	for i := range b.Items {
		if b.Items[i].ID == basketItemID {
			b.Items[i].Quantity = quantity
			return nil
		}
	}
	return ErrItemNotFound
}

// RemoveEmptyItems drops every line whose quantity is zero. Callers run it
// after a batch of SetItemQuantity calls so zero-quantity lines are never
// persisted.
func (b *Basket) RemoveEmptyItems() {
	kept := b.Items[:0]
	for _, item := range b.Items {
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	b.Items = kept
}

// Clear removes all lines. The basket aggregate itself stays around.
func (b *Basket) Clear() {
	b.Items = nil
}

// Total is the decimal sum of unit price times quantity over all lines.
func (b *Basket) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
