package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shopcore/go_shop/internal/domain"
	"github.com/shopcore/go_shop/internal/specification"
)

func setupPostgres(t *testing.T) *sql.DB {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("shop_test"),
		postgres.WithUsername("shop"),
		postgres.WithPassword("shop"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := OpenPostgres(&Credentials{
		Host:     host,
		Port:     port.Int(),
		User:     "shop",
		Password: "shop",
		DBName:   "shop_test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunPostgresMigrations(db, "migrations/postgres"))
	return db
}

func TestPostgresBasketRepository_AddAndGet(t *testing.T) {
	db := setupPostgres(t)
	repo := NewPostgresBasketRepository(db)
	ctx := context.Background()

	basket := domain.NewBasket("buyer-1")
	require.NoError(t, basket.AddItem(10, decimal.RequireFromString("12.50"), 2))
	require.NoError(t, basket.AddItem(20, decimal.RequireFromString("5.00"), 1))

	require.NoError(t, repo.Add(ctx, basket))
	require.NotZero(t, basket.ID)

	loaded, err := repo.GetByID(ctx, basket.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer-1", loaded.BuyerID)
	require.Len(t, loaded.Items, 2)
	assert.NotZero(t, loaded.Items[0].ID)
	assert.Equal(t, int64(10), loaded.Items[0].CatalogItemID)
	assert.True(t, loaded.Items[0].UnitPrice.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, 2, loaded.Items[0].Quantity)
}

func TestPostgresBasketRepository_GetByID_NotFound(t *testing.T) {
	db := setupPostgres(t)
	repo := NewPostgresBasketRepository(db)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresBasketRepository_Update_KeepsItemIDs(t *testing.T) {
	db := setupPostgres(t)
	repo := NewPostgresBasketRepository(db)
	ctx := context.Background()

	basket := domain.NewBasket("buyer-1")
	require.NoError(t, basket.AddItem(10, decimal.RequireFromString("12.50"), 2))
	require.NoError(t, basket.AddItem(20, decimal.RequireFromString("5.00"), 1))
	require.NoError(t, repo.Add(ctx, basket))

	loaded, err := repo.GetByID(ctx, basket.ID)
	require.NoError(t, err)
	keptID := loaded.Items[0].ID

	// Change one line, drop the other, add a third.
	require.NoError(t, loaded.SetItemQuantity(loaded.Items[1].ID, 0))
	loaded.RemoveEmptyItems()
	loaded.Items[0].Quantity = 7
	require.NoError(t, loaded.AddItem(30, decimal.RequireFromString("1.25"), 3))
	require.NoError(t, repo.Update(ctx, loaded))

	reloaded, err := repo.GetByID(ctx, basket.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 2)
	assert.Equal(t, keptID, reloaded.Items[0].ID)
	assert.Equal(t, 7, reloaded.Items[0].Quantity)
	assert.Equal(t, int64(30), reloaded.Items[1].CatalogItemID)
	assert.NotZero(t, reloaded.Items[1].ID)
}

func TestPostgresBasketRepository_FirstOrDefault(t *testing.T) {
	db := setupPostgres(t)
	repo := NewPostgresBasketRepository(db)
	ctx := context.Background()

	missing, err := repo.FirstOrDefault(ctx, specification.BasketWithItems("nobody"))
	require.NoError(t, err)
	assert.Nil(t, missing)

	basket := domain.NewBasket("buyer-2")
	require.NoError(t, basket.AddItem(10, decimal.RequireFromString("3.00"), 1))
	require.NoError(t, repo.Add(ctx, basket))

	found, err := repo.FirstOrDefault(ctx, specification.BasketWithItems("buyer-2"))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, basket.ID, found.ID)
	assert.Len(t, found.Items, 1)
}

func TestPostgresOrderRepository_AddAndList(t *testing.T) {
	db := setupPostgres(t)
	repo := NewPostgresOrderRepository(db)
	ctx := context.Background()

	address := domain.NewAddress("123 Main St.", "Kent", "OH", "USA", "44240")
	line, err := domain.NewOrderItem(domain.CatalogItemOrdered{
		CatalogItemID: 10,
		ProductName:   "Roadster Mug",
		PictureURI:    "/images/products/2.png",
	}, decimal.RequireFromString("8.50"), 2)
	require.NoError(t, err)

	first, err := domain.NewOrder("buyer-1", address, []domain.OrderItem{line})
	require.NoError(t, err)
	first.OrderDate = first.OrderDate.Add(-time.Hour)
	require.NoError(t, repo.Add(ctx, first))
	require.NotZero(t, first.ID)

	second, err := domain.NewOrder("buyer-1", address, []domain.OrderItem{line})
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, second))

	orders, err := repo.List(ctx, specification.OrdersByBuyer("buyer-1"))
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)

	require.Len(t, orders[1].Items, 1)
	got := orders[1].Items[0]
	assert.Equal(t, "Roadster Mug", got.ItemOrdered.ProductName)
	assert.True(t, got.UnitPrice.Equal(decimal.RequireFromString("8.50")))
	assert.Equal(t, 2, got.Units)
	assert.Equal(t, "Kent", orders[1].ShipToAddress.City)
}

func TestPostgresOrderRepository_Count(t *testing.T) {
	db := setupPostgres(t)
	repo := NewPostgresOrderRepository(db)
	ctx := context.Background()

	address := domain.NewAddress("123 Main St.", "Kent", "OH", "USA", "44240")
	line, err := domain.NewOrderItem(domain.CatalogItemOrdered{CatalogItemID: 10, ProductName: "Mug"}, decimal.RequireFromString("8.50"), 1)
	require.NoError(t, err)

	for _, buyer := range []string{"buyer-1", "buyer-1", "buyer-2"} {
		order, err := domain.NewOrder(buyer, address, []domain.OrderItem{line})
		require.NoError(t, err)
		require.NoError(t, repo.Add(ctx, order))
	}

	n, err := repo.Count(ctx, specification.OrdersByBuyer("buyer-1"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
