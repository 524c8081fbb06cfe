// Package rotation contains the queue reordering math. An order is the
// sequence of queue entry ids sorted by position, so the slice index is the
// position and density of positions holds by construction.
package rotation

// MoveToBack moves id to the end of order, preserving the relative order of
// every other entry. Returns the new order and whether id was found. Moving
// the last entry (or the only entry) is a no-op.
func MoveToBack(order []int64, id int64) ([]int64, bool) {
	idx := indexOf(order, id)
	if idx < 0 {
		return order, false
	}
	if idx == len(order)-1 {
		return order, true
	}

	next := make([]int64, 0, len(order))
	next = append(next, order[:idx]...)
	next = append(next, order[idx+1:]...)
	next = append(next, id)
	return next, true
}

// Remove drops id from order, closing the gap. Returns the new order and
// whether id was found.
func Remove(order []int64, id int64) ([]int64, bool) {
	idx := indexOf(order, id)
	if idx < 0 {
		return order, false
	}

	next := make([]int64, 0, len(order)-1)
	next = append(next, order[:idx]...)
	next = append(next, order[idx+1:]...)
	return next, true
}

// Diff returns the position reassignments needed to turn old into updated,
// keyed by entry id. Entries whose position did not change are omitted, so
// the store writes the minimal set of rows.
func Diff(old, updated []int64) map[int64]int {
	oldPos := make(map[int64]int, len(old))
	for i, id := range old {
		oldPos[id] = i
	}

	changes := make(map[int64]int)
	for i, id := range updated {
		if p, ok := oldPos[id]; !ok || p != i {
			changes[id] = i
		}
	}
	return changes
}

func indexOf(order []int64, id int64) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}
