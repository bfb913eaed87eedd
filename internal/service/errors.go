package service

import "errors"

var (
	ErrBasketNotFound     = errors.New("basket not found")
	ErrEmptyBasket        = errors.New("basket is empty, nothing to order")
	ErrUnknownCatalogItem = errors.New("catalog item does not exist")
)
