package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/shopcore/go_shop/internal/domain"
	"github.com/shopcore/go_shop/internal/specification"
)

// SQLiteCatalogRepository serves the read-mostly catalog from an embedded
// sqlite database. Prices are stored as TEXT and scanned into decimals so
// no precision is lost.
type SQLiteCatalogRepository struct {
	db *sql.DB
}

func OpenSQLite(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func RunSQLiteMigrations(db *sql.DB, migrationsPath string) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func NewSQLiteCatalogRepository(db *sql.DB) *SQLiteCatalogRepository {
	return &SQLiteCatalogRepository{db: db}
}

const catalogSelect = `SELECT id, name, description, price, picture_uri FROM catalog_items`

func (r *SQLiteCatalogRepository) GetByID(ctx context.Context, id int64) (*domain.CatalogItem, error) {
	item, err := scanCatalogItem(r.db.QueryRowContext(ctx, catalogSelect+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query catalog item by id: %w", err)
	}
	return item, nil
}

func (r *SQLiteCatalogRepository) Add(ctx context.Context, item *domain.CatalogItem) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO catalog_items (name, description, price, picture_uri) VALUES ($1, $2, $3, $4)`,
		item.Name, item.Description, item.Price.String(), item.PictureURI)
	if err != nil {
		return fmt.Errorf("insert catalog item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("catalog item id: %w", err)
	}
	item.ID = id
	return nil
}

func (r *SQLiteCatalogRepository) Update(ctx context.Context, item *domain.CatalogItem) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE catalog_items SET name = $1, description = $2, price = $3, picture_uri = $4 WHERE id = $5`,
		item.Name, item.Description, item.Price.String(), item.PictureURI, item.ID)
	if err != nil {
		return fmt.Errorf("update catalog item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteCatalogRepository) FirstOrDefault(ctx context.Context, s specification.Specification) (*domain.CatalogItem, error) {
	limited := s
	limited.Take = 1
	items, err := r.List(ctx, limited)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

func (r *SQLiteCatalogRepository) List(ctx context.Context, s specification.Specification) ([]*domain.CatalogItem, error) {
	where, args, err := catalogWhere(s.Where)
	if err != nil {
		return nil, err
	}
	suffix, err := buildSuffix(s, map[specification.Field]string{specification.FieldID: "id"})
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, catalogSelect+where+suffix, args...)
	if err != nil {
		return nil, fmt.Errorf("query catalog items: %w", err)
	}
	defer rows.Close()

	var items []*domain.CatalogItem
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

func (r *SQLiteCatalogRepository) Count(ctx context.Context, s specification.Specification) (int, error) {
	where, args, err := catalogWhere(s.Where)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_items`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count catalog items: %w", err)
	}
	return n, nil
}

// catalogWhere renders the catalog's filter clauses. sqlite has no ANY, so
// id sets become an IN list of placeholders.
func catalogWhere(clauses []specification.Clause) (string, []any, error) {
	if len(clauses) == 0 {
		return "", nil, nil
	}

	var parts []string
	var args []any
	for _, c := range clauses {
		if c.Field != specification.FieldID {
			return "", nil, fmt.Errorf("unmapped specification field %q", c.Field)
		}
		switch c.Op {
		case specification.OpEq:
			parts = append(parts, fmt.Sprintf("id = $%d", len(args)+1))
			args = append(args, c.Value)
		case specification.OpIn:
			ids, ok := c.Value.([]int64)
			if !ok {
				return "", nil, fmt.Errorf("OpIn on %q expects []int64", c.Field)
			}
			if len(ids) == 0 {
				parts = append(parts, "1 = 0")
				continue
			}
			placeholders := make([]string, len(ids))
			for i, id := range ids {
				placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
				args = append(args, id)
			}
			parts = append(parts, "id IN ("+strings.Join(placeholders, ", ")+")")
		default:
			return "", nil, fmt.Errorf("unknown operator %d", c.Op)
		}
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCatalogItem(row rowScanner) (*domain.CatalogItem, error) {
	item := &domain.CatalogItem{}
	var price string
	if err := row.Scan(&item.ID, &item.Name, &item.Description, &price, &item.PictureURI); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse catalog price %q: %w", price, err)
	}
	item.Price = parsed
	return item, nil
}
