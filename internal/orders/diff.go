package orders

// ItemQty is the product/quantity projection of a line item the diff
// algorithm operates on.
type ItemQty struct {
	ProductID int64
	Quantity  int
}

// DiffAgainstExisting computes per-product net stock deltas between an
// order's persisted item set and a proposed item set:
//
//	delta[p] = sum(new quantities for p) - sum(old quantities for p)
//
// over the union of product ids appearing in either set. Multiple line items
// referencing the same product contribute independently and are summed per
// product. Zero deltas are omitted, so a no-op edit yields an empty map. A
// positive delta consumes stock, a negative delta returns it.
func DiffAgainstExisting(old, proposed []ItemQty) map[int64]int {
	deltas := make(map[int64]int)
	for _, item := range proposed {
		deltas[item.ProductID] += item.Quantity
	}
	for _, item := range old {
		deltas[item.ProductID] -= item.Quantity
	}
	for productID, delta := range deltas {
		if delta == 0 {
			delete(deltas, productID)
		}
	}
	return deltas
}

// DiffForFreshSet computes the deltas for a brand-new order: the prior state
// is empty, so every referenced product's delta is its summed quantity.
func DiffForFreshSet(proposed []ItemQty) map[int64]int {
	return DiffAgainstExisting(nil, proposed)
}

// ReturnDeltas computes the full stock return applied on cancellation: the
// negative of each committed item's quantity, summed per product.
func ReturnDeltas(items []ItemQty) map[int64]int {
	return DiffAgainstExisting(items, nil)
}
