package repository

import (
	"context"
	"errors"

	"github.com/shopcore/go_shop/internal/specification"
)

var ErrNotFound = errors.New("entity not found")

// Repository is the persistence contract the domain workflows depend on.
// Update persists the full current state of a previously loaded aggregate,
// including its owned child collection; Add assigns a durable identity.
// FirstOrDefault returns (nil, nil) when nothing matches: absence is an
// outcome, not a failure.
type Repository[T any] interface {
	GetByID(ctx context.Context, id int64) (*T, error)
	Add(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	FirstOrDefault(ctx context.Context, s specification.Specification) (*T, error)
	List(ctx context.Context, s specification.Specification) ([]*T, error)
	Count(ctx context.Context, s specification.Specification) (int, error)
}
