package domain

import (
	"fmt"
	"slices"
)

// OrderShift moves every tag whose display order lies in [From, To] by Delta.
type OrderShift struct {
	From  int
	To    int
	Delta int
}

// Applies reports whether the shift touches the given order.
func (s OrderShift) Applies(order int) bool {
	return order >= s.From && order <= s.To
}

// PlanReorder computes the neighbour shift for moving a tag from oldOrder to
// newOrder inside a category of size count. ok is false for a no-op move.
func PlanReorder(oldOrder, newOrder, count int) (shift OrderShift, ok bool, err error) {
	if newOrder < 1 || newOrder > count {
		return OrderShift{}, false, Validation(fmt.Sprintf("表示順は1から%dの範囲で指定してください", count))
	}
	switch {
	case newOrder == oldOrder:
		return OrderShift{}, false, nil
	case newOrder > oldOrder:
		return OrderShift{From: oldOrder + 1, To: newOrder, Delta: -1}, true, nil
	default:
		return OrderShift{From: newOrder, To: oldOrder - 1, Delta: 1}, true, nil
	}
}

// PlanRemoval is the shift closing the gap left by a tag removed at order.
func PlanRemoval(order, count int) OrderShift {
	return OrderShift{From: order + 1, To: count, Delta: -1}
}

// NextDisplayOrder is the order appended tags receive.
func NextDisplayOrder(maxOrder int) int {
	if maxOrder < 0 {
		return 1
	}
	return maxOrder + 1
}

// IsContiguous reports whether the orders are exactly {1..N}.
func IsContiguous(orders []int) bool {
	seen := make([]bool, len(orders)+1)
	for _, o := range orders {
		if o < 1 || o > len(orders) || seen[o] {
			return false
		}
		seen[o] = true
	}
	return true
}

// SortTags orders tags by category (UI order) then display order.
func SortTags(tags []Tag) {
	slices.SortFunc(tags, func(a, b Tag) int {
		ca := slices.Index(TagCategories, a.Category)
		cb := slices.Index(TagCategories, b.Category)
		if ca != cb {
			return ca - cb
		}
		return a.DisplayOrder - b.DisplayOrder
	})
}
