package rotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveToBack(t *testing.T) {
	order, ok := MoveToBack([]int64{1, 2, 3}, 1)
	require.True(t, ok)
	assert.Equal(t, []int64{2, 3, 1}, order)
}

func TestMoveToBack_Middle(t *testing.T) {
	order, ok := MoveToBack([]int64{1, 2, 3, 4}, 2)
	require.True(t, ok)
	assert.Equal(t, []int64{1, 3, 4, 2}, order, "entries other than the moved one keep their relative order")
}

func TestMoveToBack_AlreadyLast(t *testing.T) {
	order, ok := MoveToBack([]int64{1, 2, 3}, 3)
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, order)
}

func TestMoveToBack_SoleEntry(t *testing.T) {
	order, ok := MoveToBack([]int64{7}, 7)
	require.True(t, ok)
	assert.Equal(t, []int64{7}, order)
}

func TestMoveToBack_Missing(t *testing.T) {
	order, ok := MoveToBack([]int64{1, 2, 3}, 9)
	assert.False(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, order)
}

func TestMoveToBack_EmptyOrder(t *testing.T) {
	_, ok := MoveToBack(nil, 1)
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	order, ok := Remove([]int64{1, 2, 3}, 2)
	require.True(t, ok)
	assert.Equal(t, []int64{1, 3}, order)
}

func TestRemove_Missing(t *testing.T) {
	order, ok := Remove([]int64{1, 2, 3}, 9)
	assert.False(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, order)
}

func TestDiff_MinimalChanges(t *testing.T) {
	old := []int64{1, 2, 3, 4}
	updated, ok := MoveToBack(old, 2)
	require.True(t, ok)

	changes := Diff(old, updated)
	// entry 1 stays at 0; 3 and 4 shift down; 2 goes to the back
	assert.Equal(t, map[int64]int{3: 1, 4: 2, 2: 3}, changes)
}

func TestDiff_NoChanges(t *testing.T) {
	order := []int64{1, 2, 3}
	assert.Empty(t, Diff(order, order))
}

// Positions stay a dense 0..N-1 range under any mix of operations because an
// order is a plain slice; this test pins the invariant against regressions in
// how Diff reassigns them.
func TestDensePositionsAfterMixedOps(t *testing.T) {
	order := []int64{10, 20, 30, 40, 50}

	order, ok := MoveToBack(order, 30)
	require.True(t, ok)
	order, ok = Remove(order, 10)
	require.True(t, ok)
	order, ok = MoveToBack(order, 20)
	require.True(t, ok)

	assert.Equal(t, []int64{40, 50, 30, 20}, order)

	seen := make(map[int64]bool)
	for _, id := range order {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}
