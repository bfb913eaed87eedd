package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress() Address {
	return NewAddress("123 Main St", "Kent", "OH", "USA", "44240")
}

func testOrderItem(t *testing.T, price string, units int) OrderItem {
	t.Helper()
	item, err := NewOrderItem(CatalogItemOrdered{
		CatalogItemID: 1,
		ProductName:   "Test Product",
		PictureURI:    "/images/products/1.png",
	}, decimal.RequireFromString(price), units)
	require.NoError(t, err)
	return item
}

func TestNewOrder_RejectsEmptyItems(t *testing.T) {
	order, err := NewOrder("buyer-1", testAddress(), nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Nil(t, order)

	order, err = NewOrder("buyer-1", testAddress(), []OrderItem{})
	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Nil(t, order)
}

func TestNewOrder_SetsOrderDate(t *testing.T) {
	before := time.Now().UTC()
	order, err := NewOrder("buyer-1", testAddress(), []OrderItem{testOrderItem(t, "9.99", 1)})
	after := time.Now().UTC()

	require.NoError(t, err)
	assert.False(t, order.OrderDate.Before(before))
	assert.False(t, order.OrderDate.After(after))
	assert.Equal(t, "buyer-1", order.BuyerID)
	assert.Equal(t, testAddress(), order.ShipToAddress)
}

func TestNewOrder_CopiesItems(t *testing.T) {
	items := []OrderItem{testOrderItem(t, "9.99", 1)}
	order, err := NewOrder("buyer-1", testAddress(), items)
	require.NoError(t, err)

	// Mutating the caller's slice must not touch the order.
	items[0].Units = 100
	assert.Equal(t, 1, order.Items[0].Units)
}

func TestNewOrderItem_RejectsZeroUnits(t *testing.T) {
	_, err := NewOrderItem(CatalogItemOrdered{CatalogItemID: 1}, decimal.RequireFromString("1.00"), 0)
	assert.ErrorIs(t, err, ErrInvalidUnits)
}

func TestOrderTotal_ExactDecimalSum(t *testing.T) {
	order, err := NewOrder("buyer-1", testAddress(), []OrderItem{
		testOrderItem(t, "10.00", 2),
		testOrderItem(t, "5.50", 1),
	})
	require.NoError(t, err)

	assert.Equal(t, "25.5", order.Total().String())
	assert.True(t, order.Total().Equal(decimal.RequireFromString("25.50")))
}
