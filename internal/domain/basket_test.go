package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItem_NewLine(t *testing.T) {
	basket := NewBasket("buyer-1")

	err := basket.AddItem(42, decimal.RequireFromString("9.99"), 2)
	require.NoError(t, err)

	require.Len(t, basket.Items, 1)
	assert.Equal(t, int64(42), basket.Items[0].CatalogItemID)
	assert.Equal(t, 2, basket.Items[0].Quantity)
	assert.True(t, basket.Items[0].UnitPrice.Equal(decimal.RequireFromString("9.99")))
}

func TestAddItem_MergesByCatalogItem(t *testing.T) {
	basket := NewBasket("buyer-1")

	require.NoError(t, basket.AddItem(42, decimal.RequireFromString("9.99"), 2))
	require.NoError(t, basket.AddItem(42, decimal.RequireFromString("14.99"), 3))

	require.Len(t, basket.Items, 1)
	assert.Equal(t, 5, basket.Items[0].Quantity)
	// The first recorded price wins; the repeat add's price is ignored.
	assert.True(t, basket.Items[0].UnitPrice.Equal(decimal.RequireFromString("9.99")))
}

func TestAddItem_DistinctCatalogItems(t *testing.T) {
	basket := NewBasket("buyer-1")

	require.NoError(t, basket.AddItem(1, decimal.RequireFromString("1.00"), 1))
	require.NoError(t, basket.AddItem(2, decimal.RequireFromString("2.00"), 2))
	require.NoError(t, basket.AddItem(1, decimal.RequireFromString("1.50"), 4))

	require.Len(t, basket.Items, 2)
	assert.Equal(t, 5, basket.Items[0].Quantity)
	assert.Equal(t, 2, basket.Items[1].Quantity)
}

func TestAddItem_RejectsQuantityBelowOne(t *testing.T) {
	basket := NewBasket("buyer-1")

	err := basket.AddItem(42, decimal.RequireFromString("9.99"), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Empty(t, basket.Items)

	err = basket.AddItem(42, decimal.RequireFromString("9.99"), -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Empty(t, basket.Items)
}

func TestSetItemQuantity_Sets(t *testing.T) {
	basket := NewBasket("buyer-1")
	require.NoError(t, basket.AddItem(42, decimal.RequireFromString("9.99"), 2))
	basket.Items[0].ID = 7

	err := basket.SetItemQuantity(7, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, basket.Items[0].Quantity)
}

func TestSetItemQuantity_RejectsNegative(t *testing.T) {
	basket := NewBasket("buyer-1")
	require.NoError(t, basket.AddItem(42, decimal.RequireFromString("9.99"), 2))
	basket.Items[0].ID = 7

	err := basket.SetItemQuantity(7, -1)
	assert.ErrorIs(t, err, ErrNegativeQuantity)
	// The rejected call must not have touched the line.
	assert.Equal(t, 2, basket.Items[0].Quantity)
}

func TestSetItemQuantity_UnknownLine(t *testing.T) {
	basket := NewBasket("buyer-1")

	err := basket.SetItemQuantity(99, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveEmptyItems_DropsOnlyZeroLines(t *testing.T) {
	basket := NewBasket("buyer-1")
	require.NoError(t, basket.AddItem(1, decimal.RequireFromString("1.00"), 1))
	require.NoError(t, basket.AddItem(2, decimal.RequireFromString("2.00"), 2))
	require.NoError(t, basket.AddItem(3, decimal.RequireFromString("3.00"), 3))
	for i := range basket.Items {
		basket.Items[i].ID = int64(i + 1)
	}

	require.NoError(t, basket.SetItemQuantity(2, 0))
	basket.RemoveEmptyItems()

	require.Len(t, basket.Items, 2)
	assert.Equal(t, int64(1), basket.Items[0].CatalogItemID)
	assert.Equal(t, int64(3), basket.Items[1].CatalogItemID)
}

func TestClear_RemovesAllLines(t *testing.T) {
	basket := NewBasket("buyer-1")
	require.NoError(t, basket.AddItem(1, decimal.RequireFromString("1.00"), 1))
	require.NoError(t, basket.AddItem(2, decimal.RequireFromString("2.00"), 2))

	basket.Clear()
	assert.Empty(t, basket.Items)
}

func TestBasketTotal(t *testing.T) {
	basket := NewBasket("buyer-1")
	require.NoError(t, basket.AddItem(1, decimal.RequireFromString("10.00"), 2))
	require.NoError(t, basket.AddItem(2, decimal.RequireFromString("5.50"), 1))

	assert.True(t, basket.Total().Equal(decimal.RequireFromString("25.50")))
}
