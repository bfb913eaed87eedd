package repository

import (
	"context"
	"sync"

	"github.com/shopcore/go_shop/internal/domain"
	"github.com/shopcore/go_shop/internal/specification"
)

// MemoryRepository keeps aggregates in a map guarded by a RWMutex. It is
// the reference interpretation of the specification contract and doubles
// as the test backend. Entities are cloned on the way in and out so no
// caller ever holds a reference into the store.
type MemoryRepository[T any] struct {
	mu     sync.RWMutex
	rows   map[int64]*T
	nextID int64

	id       func(*T) int64
	assignID func(*T, func() int64)
	clone    func(*T) *T
	field    specification.FieldFunc[*T]
}

func newMemoryRepository[T any](
	id func(*T) int64,
	assignID func(*T, func() int64),
	clone func(*T) *T,
	field specification.FieldFunc[*T],
) *MemoryRepository[T] {
	return &MemoryRepository[T]{
		rows:     make(map[int64]*T),
		id:       id,
		assignID: assignID,
		clone:    clone,
		field:    field,
	}
}

func (r *MemoryRepository[T]) next() int64 {
	r.nextID++
	return r.nextID
}

func (r *MemoryRepository[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.clone(row), nil
}

func (r *MemoryRepository[T]) Add(ctx context.Context, entity *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.assignID(entity, r.next)
	r.rows[r.id(entity)] = r.clone(entity)
	return nil
}

func (r *MemoryRepository[T]) Update(ctx context.Context, entity *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[r.id(entity)]; !ok {
		return ErrNotFound
	}
	// New child lines added since the load still need identities.
	r.assignID(entity, r.next)
	r.rows[r.id(entity)] = r.clone(entity)
	return nil
}

func (r *MemoryRepository[T]) FirstOrDefault(ctx context.Context, s specification.Specification) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := specification.FirstOrDefault(r.all(), s, r.field)
	if !ok {
		return nil, nil
	}
	return r.clone(row), nil
}

func (r *MemoryRepository[T]) List(ctx context.Context, s specification.Specification) ([]*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := specification.Evaluate(r.all(), s, r.field)
	out := make([]*T, 0, len(matched))
	for _, row := range matched {
		out = append(out, r.clone(row))
	}
	return out, nil
}

func (r *MemoryRepository[T]) Count(ctx context.Context, s specification.Specification) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return specification.Count(r.all(), s, r.field), nil
}

func (r *MemoryRepository[T]) all() []*T {
	rows := make([]*T, 0, len(r.rows))
	for _, row := range r.rows {
		rows = append(rows, row)
	}
	return rows
}

// NewBasketMemoryRepository builds an in-memory basket store. Basket item
// ids are assigned from the same sequence as basket ids.
func NewBasketMemoryRepository() *MemoryRepository[domain.Basket] {
	return newMemoryRepository(
		func(b *domain.Basket) int64 { return b.ID },
		func(b *domain.Basket, next func() int64) {
			if b.ID == 0 {
				b.ID = next()
			}
			for i := range b.Items {
				if b.Items[i].ID == 0 {
					b.Items[i].ID = next()
				}
			}
		},
		func(b *domain.Basket) *domain.Basket {
			copied := *b
			copied.Items = append([]domain.BasketItem(nil), b.Items...)
			return &copied
		},
		func(b *domain.Basket, f specification.Field) any {
			switch f {
			case specification.FieldID:
				return b.ID
			case specification.FieldBuyerID:
				return b.BuyerID
			}
			return nil
		},
	)
}

// NewOrderMemoryRepository builds an in-memory order store.
func NewOrderMemoryRepository() *MemoryRepository[domain.Order] {
	return newMemoryRepository(
		func(o *domain.Order) int64 { return o.ID },
		func(o *domain.Order, next func() int64) {
			if o.ID == 0 {
				o.ID = next()
			}
		},
		func(o *domain.Order) *domain.Order {
			copied := *o
			copied.Items = append([]domain.OrderItem(nil), o.Items...)
			return &copied
		},
		func(o *domain.Order, f specification.Field) any {
			switch f {
			case specification.FieldID:
				return o.ID
			case specification.FieldBuyerID:
				return o.BuyerID
			case specification.FieldOrderDate:
				return o.OrderDate
			}
			return nil
		},
	)
}

// NewCatalogMemoryRepository builds an in-memory catalog store.
func NewCatalogMemoryRepository() *MemoryRepository[domain.CatalogItem] {
	return newMemoryRepository(
		func(c *domain.CatalogItem) int64 { return c.ID },
		func(c *domain.CatalogItem, next func() int64) {
			if c.ID == 0 {
				c.ID = next()
			}
		},
		func(c *domain.CatalogItem) *domain.CatalogItem {
			copied := *c
			return &copied
		},
		func(c *domain.CatalogItem, f specification.Field) any {
			if f == specification.FieldID {
				return c.ID
			}
			return nil
		},
	)
}
