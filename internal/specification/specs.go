package specification

// BasketWithItems selects the basket owned by a buyer, items included.
func BasketWithItems(buyerID string) Specification {
	return Specification{
		Where:    []Clause{{Field: FieldBuyerID, Op: OpEq, Value: buyerID}},
		Includes: []Relation{RelationItems},
	}
}

// BasketWithItemsByID selects a basket by its id, items included.
func BasketWithItemsByID(basketID int64) Specification {
	return Specification{
		Where:    []Clause{{Field: FieldID, Op: OpEq, Value: basketID}},
		Includes: []Relation{RelationItems},
	}
}

// OrderWithItemsByID selects an order by its id, items included.
func OrderWithItemsByID(orderID int64) Specification {
	return Specification{
		Where:    []Clause{{Field: FieldID, Op: OpEq, Value: orderID}},
		Includes: []Relation{RelationItems},
	}
}

// OrdersByBuyer selects all of a buyer's orders, newest first, items
// included.
func OrdersByBuyer(buyerID string) Specification {
	return Specification{
		Where:    []Clause{{Field: FieldBuyerID, Op: OpEq, Value: buyerID}},
		OrderBy:  &Ordering{Field: FieldOrderDate, Direction: Descending},
		Includes: []Relation{RelationItems},
	}
}

// CatalogItemsByIDs selects the catalog items whose id is in the given set.
// Result order is not guaranteed.
func CatalogItemsByIDs(ids ...int64) Specification {
	return Specification{
		Where: []Clause{{Field: FieldID, Op: OpIn, Value: ids}},
	}
}

// CatalogItemsPaged selects one page of the catalog ordered by id.
func CatalogItemsPaged(skip, take int) Specification {
	return Specification{
		OrderBy: &Ordering{Field: FieldID, Direction: Ascending},
		Skip:    skip,
		Take:    take,
	}
}
