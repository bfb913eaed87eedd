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

var basketColumns = map[specification.Field]string{
	specification.FieldID:      "id",
	specification.FieldBuyerID: "buyer_id",
}

// PostgresBasketRepository persists baskets and their owned lines in the
// baskets and basket_items tables.
type PostgresBasketRepository struct {
	db *sql.DB
}

func NewPostgresBasketRepository(db *sql.DB) *PostgresBasketRepository {
	return &PostgresBasketRepository{db: db}
}

func (r *PostgresBasketRepository) GetByID(ctx context.Context, id int64) (*domain.Basket, error) {
	var basket domain.Basket
	err := r.db.QueryRowContext(ctx,
		`SELECT id, buyer_id FROM baskets WHERE id = $1`, id).
		Scan(&basket.ID, &basket.BuyerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query basket by id: %w", err)
	}

	if err := r.loadItems(ctx, []*domain.Basket{&basket}); err != nil {
		return nil, err
	}
	return &basket, nil
}

func (r *PostgresBasketRepository) Add(ctx context.Context, basket *domain.Basket) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO baskets (buyer_id) VALUES ($1) RETURNING id`, basket.BuyerID).
		Scan(&basket.ID)
	if err != nil {
		return fmt.Errorf("insert basket: %w", err)
	}

	for i := range basket.Items {
		if err := insertBasketItem(ctx, tx, basket.ID, &basket.Items[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit basket insert: %w", err)
	}
	return nil
}

// Update rewrites the basket's current state: lines removed from the
// aggregate are deleted, changed lines are updated in place so their ids
// stay stable across requests, and new lines get ids from the database.
func (r *PostgresBasketRepository) Update(ctx context.Context, basket *domain.Basket) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE baskets SET buyer_id = $1 WHERE id = $2`, basket.BuyerID, basket.ID)
	if err != nil {
		return fmt.Errorf("update basket: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	keptIDs := make([]int64, 0, len(basket.Items))
	for _, item := range basket.Items {
		if item.ID != 0 {
			keptIDs = append(keptIDs, item.ID)
		}
	}
	_, err = tx.ExecContext(ctx,
		`DELETE FROM basket_items WHERE basket_id = $1 AND NOT (id = ANY($2))`,
		basket.ID, pq.Array(keptIDs))
	if err != nil {
		return fmt.Errorf("delete removed basket items: %w", err)
	}

	for i := range basket.Items {
		item := &basket.Items[i]
		if item.ID == 0 {
			if err := insertBasketItem(ctx, tx, basket.ID, item); err != nil {
				return err
			}
			continue
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE basket_items SET catalog_item_id = $1, unit_price = $2, quantity = $3 WHERE id = $4 AND basket_id = $5`,
			item.CatalogItemID, item.UnitPrice, item.Quantity, item.ID, basket.ID)
		if err != nil {
			return fmt.Errorf("update basket item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit basket update: %w", err)
	}
	return nil
}

func (r *PostgresBasketRepository) FirstOrDefault(ctx context.Context, s specification.Specification) (*domain.Basket, error) {
	limited := s
	limited.Take = 1
	baskets, err := r.list(ctx, limited)
	if err != nil {
		return nil, err
	}
	if len(baskets) == 0 {
		return nil, nil
	}
	return baskets[0], nil
}

func (r *PostgresBasketRepository) List(ctx context.Context, s specification.Specification) ([]*domain.Basket, error) {
	return r.list(ctx, s)
}

func (r *PostgresBasketRepository) Count(ctx context.Context, s specification.Specification) (int, error) {
	where, args, err := buildWhere(s.Where, basketColumns, 0)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM baskets`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count baskets: %w", err)
	}
	return n, nil
}

func (r *PostgresBasketRepository) list(ctx context.Context, s specification.Specification) ([]*domain.Basket, error) {
	where, args, err := buildWhere(s.Where, basketColumns, 0)
	if err != nil {
		return nil, err
	}
	suffix, err := buildSuffix(s, basketColumns)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, buyer_id FROM baskets`+where+suffix, args...)
	if err != nil {
		return nil, fmt.Errorf("query baskets: %w", err)
	}
	defer rows.Close()

	var baskets []*domain.Basket
	for rows.Next() {
		var basket domain.Basket
		if err := rows.Scan(&basket.ID, &basket.BuyerID); err != nil {
			return nil, fmt.Errorf("scan basket row: %w", err)
		}
		baskets = append(baskets, &basket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if s.HasInclude(specification.RelationItems) {
		if err := r.loadItems(ctx, baskets); err != nil {
			return nil, err
		}
	}
	return baskets, nil
}

func (r *PostgresBasketRepository) loadItems(ctx context.Context, baskets []*domain.Basket) error {
	if len(baskets) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Basket, len(baskets))
	ids := make([]int64, 0, len(baskets))
	for _, b := range baskets {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, basket_id, catalog_item_id, unit_price, quantity
		 FROM basket_items WHERE basket_id = ANY($1) ORDER BY id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query basket items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.BasketItem
		var basketID int64
		if err := rows.Scan(&item.ID, &basketID, &item.CatalogItemID, &item.UnitPrice, &item.Quantity); err != nil {
			return fmt.Errorf("scan basket item row: %w", err)
		}
		byID[basketID].Items = append(byID[basketID].Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}

func insertBasketItem(ctx context.Context, tx *sql.Tx, basketID int64, item *domain.BasketItem) error {
	err := tx.QueryRowContext(ctx,
		`INSERT INTO basket_items (basket_id, catalog_item_id, unit_price, quantity)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		basketID, item.CatalogItemID, item.UnitPrice, item.Quantity).
		Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert basket item: %w", err)
	}
	return nil
}
