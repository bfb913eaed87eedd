package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopcore/go_shop/internal/domain"
)

type BasketItemDTO struct {
	ID            int64           `json:"id"`
	CatalogItemID int64           `json:"catalog_item_id"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
}

type BasketDTO struct {
	ID      int64           `json:"id"`
	BuyerID string          `json:"buyer_id"`
	Items   []BasketItemDTO `json:"items"`
	Total   decimal.Decimal `json:"total"`
}

func toBasketDTO(basket *domain.Basket) BasketDTO {
	dto := BasketDTO{
		ID:      basket.ID,
		BuyerID: basket.BuyerID,
		Items:   make([]BasketItemDTO, 0, len(basket.Items)),
		Total:   basket.Total(),
	}
	for _, item := range basket.Items {
		dto.Items = append(dto.Items, BasketItemDTO{
			ID:            item.ID,
			CatalogItemID: item.CatalogItemID,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
		})
	}
	return dto
}

type OrderItemDTO struct {
	CatalogItemID int64           `json:"catalog_item_id"`
	ProductName   string          `json:"product_name"`
	PictureURI    string          `json:"picture_uri"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Units         int             `json:"units"`
}

type OrderSummaryDTO struct {
	ID        int64           `json:"id"`
	OrderDate time.Time       `json:"order_date"`
	Total     decimal.Decimal `json:"total"`
}

type OrderDetailDTO struct {
	OrderSummaryDTO
	ShipToAddress domain.Address `json:"ship_to_address"`
	Items         []OrderItemDTO `json:"items"`
}

func toOrderSummaryDTO(order *domain.Order) OrderSummaryDTO {
	return OrderSummaryDTO{
		ID:        order.ID,
		OrderDate: order.OrderDate,
		Total:     order.Total(),
	}
}

func toOrderDetailDTO(order *domain.Order) OrderDetailDTO {
	dto := OrderDetailDTO{
		OrderSummaryDTO: toOrderSummaryDTO(order),
		ShipToAddress:   order.ShipToAddress,
		Items:           make([]OrderItemDTO, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			CatalogItemID: item.ItemOrdered.CatalogItemID,
			ProductName:   item.ItemOrdered.ProductName,
			PictureURI:    item.ItemOrdered.PictureURI,
			UnitPrice:     item.UnitPrice,
			Units:         item.Units,
		})
	}
	return dto
}

type CatalogItemDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	PictureURI  string          `json:"picture_uri"`
}

type PagedCatalogDTO struct {
	CatalogItems []CatalogItemDTO `json:"catalog_items"`
	PageCount    int              `json:"page_count"`
	TotalItems   int              `json:"total_items"`
}

func toCatalogItemDTO(item *domain.CatalogItem) CatalogItemDTO {
	return CatalogItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		PictureURI:  item.PictureURI,
	}
}
