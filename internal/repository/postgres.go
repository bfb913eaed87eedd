package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
	_ "github.com/lib/pq"

	"github.com/shopcore/go_shop/internal/specification"
)

// Credentials holds postgres connection settings.
type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

func OpenPostgres(cred *Credentials) (*sql.DB, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return db, nil
}

func RunPostgresMigrations(db *sql.DB, migrationsPath string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: "shop_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

// buildWhere translates filter clauses into a WHERE fragment with $n
// placeholders starting after argOffset. The clause set is closed, so an
// unmapped field is a programming error.
func buildWhere(clauses []specification.Clause, columns map[specification.Field]string, argOffset int) (string, []any, error) {
	if len(clauses) == 0 {
		return "", nil, nil
	}

	var parts []string
	var args []any
	n := argOffset
	for _, c := range clauses {
		col, ok := columns[c.Field]
		if !ok {
			return "", nil, fmt.Errorf("unmapped specification field %q", c.Field)
		}
		n++
		switch c.Op {
		case specification.OpEq:
			parts = append(parts, fmt.Sprintf("%s = $%d", col, n))
			args = append(args, c.Value)
		case specification.OpIn:
			ids, ok := c.Value.([]int64)
			if !ok {
				return "", nil, fmt.Errorf("OpIn on %q expects []int64", c.Field)
			}
			parts = append(parts, fmt.Sprintf("%s = ANY($%d)", col, n))
			args = append(args, pq.Array(ids))
		default:
			return "", nil, fmt.Errorf("unknown operator %d", c.Op)
		}
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

// buildSuffix renders ORDER BY / LIMIT / OFFSET for a specification.
func buildSuffix(s specification.Specification, columns map[specification.Field]string) (string, error) {
	var b strings.Builder
	if s.OrderBy != nil {
		col, ok := columns[s.OrderBy.Field]
		if !ok {
			return "", fmt.Errorf("unmapped ordering field %q", s.OrderBy.Field)
		}
		b.WriteString(" ORDER BY " + col)
		if s.OrderBy.Direction == specification.Descending {
			b.WriteString(" DESC")
		}
	}
	if s.Take > 0 {
		fmt.Fprintf(&b, " LIMIT %d", s.Take)
	}
	if s.Skip > 0 {
		fmt.Fprintf(&b, " OFFSET %d", s.Skip)
	}
	return b.String(), nil
}
