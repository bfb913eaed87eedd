// Package specification describes which rows to load from a store, in what
// order, with which related collections, without referencing any storage
// engine. A specification is plain data; every store backend interprets the
// same closed set of fields.
package specification

// Field names a queryable attribute of an aggregate.
type Field string

const (
	FieldID        Field = "id"
	FieldBuyerID   Field = "buyer_id"
	FieldOrderDate Field = "order_date"
)

// Op is a comparison operator. The set is closed on purpose so stores can
// interpret clauses exhaustively.
type Op int

const (
	OpEq Op = iota
	OpIn
)

// Clause is a single filter predicate. Multiple clauses are ANDed.
type Clause struct {
	Field Field
	Op    Op
	Value any // int64 or string for OpEq, []int64 for OpIn
}

type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Ordering names the field and direction results are sorted by.
type Ordering struct {
	Field     Field
	Direction Direction
}

// Relation names an owned child collection to load together with the
// aggregate, so callers never see a partially loaded aggregate.
type Relation string

const RelationItems Relation = "items"

// Specification is a declarative query description: filter clauses, an
// optional ordering, related collections to include, and optional paging.
// Paging applies after filtering and ordering.
type Specification struct {
	Where    []Clause
	OrderBy  *Ordering
	Includes []Relation
	Skip     int
	Take     int // 0 means no limit
}

func (s Specification) HasInclude(r Relation) bool {
	for _, inc := range s.Includes {
		if inc == r {
			return true
		}
	}
	return false
}
