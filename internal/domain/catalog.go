package domain

import "github.com/shopspring/decimal"

// CatalogItem is a product available for purchase. The catalog is the
// authority for current names, pictures and prices; baskets and orders
// copy the values they need instead of referencing catalog rows.
type CatalogItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	PictureURI  string          `json:"picture_uri"`
}
