package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/shopcore/go_shop/internal/domain"
	"github.com/shopcore/go_shop/internal/specification"
)

var orderColumns = map[specification.Field]string{
	specification.FieldID:        "id",
	specification.FieldBuyerID:   "buyer_id",
	specification.FieldOrderDate: "order_date",
}

// PostgresOrderRepository persists orders and their snapshot lines in the
// orders and order_items tables. Orders are written once; Update exists to
// satisfy the contract but is never part of the normal order lifecycle.
type PostgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := r.db.QueryRowContext(ctx,
		`SELECT id, buyer_id, order_date, street, city, state, country, zip_code
		 FROM orders WHERE id = $1`, id).
		Scan(&order.ID, &order.BuyerID, &order.OrderDate,
			&order.ShipToAddress.Street, &order.ShipToAddress.City, &order.ShipToAddress.State,
			&order.ShipToAddress.Country, &order.ShipToAddress.ZipCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	if err := r.loadItems(ctx, []*domain.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *PostgresOrderRepository) Add(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (buyer_id, order_date, street, city, state, country, zip_code)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		order.BuyerID, order.OrderDate,
		order.ShipToAddress.Street, order.ShipToAddress.City, order.ShipToAddress.State,
		order.ShipToAddress.Country, order.ShipToAddress.ZipCode).
		Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err := insertOrderItems(ctx, tx, order); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order insert: %w", err)
	}
	return nil
}

func (r *PostgresOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET buyer_id = $1, order_date = $2, street = $3, city = $4,
		 state = $5, country = $6, zip_code = $7 WHERE id = $8`,
		order.BuyerID, order.OrderDate,
		order.ShipToAddress.Street, order.ShipToAddress.City, order.ShipToAddress.State,
		order.ShipToAddress.Country, order.ShipToAddress.ZipCode, order.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	if err := insertOrderItems(ctx, tx, order); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order update: %w", err)
	}
	return nil
}

func (r *PostgresOrderRepository) FirstOrDefault(ctx context.Context, s specification.Specification) (*domain.Order, error) {
	limited := s
	limited.Take = 1
	orders, err := r.list(ctx, limited)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return orders[0], nil
}

func (r *PostgresOrderRepository) List(ctx context.Context, s specification.Specification) ([]*domain.Order, error) {
	return r.list(ctx, s)
}

func (r *PostgresOrderRepository) Count(ctx context.Context, s specification.Specification) (int, error) {
	where, args, err := buildWhere(s.Where, orderColumns, 0)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (r *PostgresOrderRepository) list(ctx context.Context, s specification.Specification) ([]*domain.Order, error) {
	where, args, err := buildWhere(s.Where, orderColumns, 0)
	if err != nil {
		return nil, err
	}
	suffix, err := buildSuffix(s, orderColumns)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, buyer_id, order_date, street, city, state, country, zip_code
		 FROM orders`+where+suffix, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.BuyerID, &order.OrderDate,
			&order.ShipToAddress.Street, &order.ShipToAddress.City, &order.ShipToAddress.State,
			&order.ShipToAddress.Country, &order.ShipToAddress.ZipCode); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if s.HasInclude(specification.RelationItems) {
		if err := r.loadItems(ctx, orders); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *PostgresOrderRepository) loadItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT order_id, catalog_item_id, product_name, picture_uri, unit_price, units
		 FROM order_items WHERE order_id = ANY($1) ORDER BY id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		var orderID int64
		if err := rows.Scan(&orderID, &item.ItemOrdered.CatalogItemID, &item.ItemOrdered.ProductName,
			&item.ItemOrdered.PictureURI, &item.UnitPrice, &item.Units); err != nil {
			return fmt.Errorf("scan order item row: %w", err)
		}
		byID[orderID].Items = append(byID[orderID].Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}

func insertOrderItems(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	for _, item := range order.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, catalog_item_id, product_name, picture_uri, unit_price, units)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, item.ItemOrdered.CatalogItemID, item.ItemOrdered.ProductName,
			item.ItemOrdered.PictureURI, item.UnitPrice, item.Units)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}
