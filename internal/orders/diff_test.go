package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffForFreshSetReservesEveryItem(t *testing.T) {
	deltas := DiffForFreshSet([]ItemQty{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 3},
	})
	assert.Equal(t, map[int64]int{1: 2, 2: 3}, deltas)
}

func TestDiffSumsDuplicateProductLines(t *testing.T) {
	// two lines for the same product contribute independently
	deltas := DiffForFreshSet([]ItemQty{
		{ProductID: 1, Quantity: 2},
		{ProductID: 1, Quantity: 5},
	})
	assert.Equal(t, map[int64]int{1: 7}, deltas)
}

func TestDiffAgainstExistingQuantityChange(t *testing.T) {
	old := []ItemQty{{ProductID: 1, Quantity: 2}}
	proposed := []ItemQty{{ProductID: 1, Quantity: 5}}
	assert.Equal(t, map[int64]int{1: 3}, DiffAgainstExisting(old, proposed))
}

func TestDiffAgainstExistingRemovedItem(t *testing.T) {
	old := []ItemQty{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 3},
	}
	proposed := []ItemQty{{ProductID: 1, Quantity: 2}}

	deltas := DiffAgainstExisting(old, proposed)
	assert.Equal(t, map[int64]int{2: -3}, deltas)
}

func TestDiffAgainstExistingAddedProduct(t *testing.T) {
	old := []ItemQty{{ProductID: 1, Quantity: 2}}
	proposed := []ItemQty{
		{ProductID: 1, Quantity: 2},
		{ProductID: 3, Quantity: 4},
	}
	assert.Equal(t, map[int64]int{3: 4}, DiffAgainstExisting(old, proposed))
}

func TestDiffNoOpEditYieldsEmptyMap(t *testing.T) {
	set := []ItemQty{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 3},
	}
	assert.Empty(t, DiffAgainstExisting(set, set))
}

func TestDiffKeysAreSubsetOfTouchedProducts(t *testing.T) {
	old := []ItemQty{{ProductID: 1, Quantity: 1}}
	proposed := []ItemQty{{ProductID: 2, Quantity: 1}}

	deltas := DiffAgainstExisting(old, proposed)
	for productID := range deltas {
		assert.Contains(t, []int64{1, 2}, productID)
	}
}

func TestReturnDeltasNegatesCommittedQuantities(t *testing.T) {
	items := []ItemQty{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 3},
		{ProductID: 1, Quantity: 4},
	}
	assert.Equal(t, map[int64]int{1: -6, 2: -3}, ReturnDeltas(items))
}
