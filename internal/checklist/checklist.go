// Package checklist sequences a task's embedded ordered checklist.
//
// Advance moves the checklist forward by exactly one incomplete item per
// call, in ascending order. The one-step contract is deliberate: it leaves
// room for a human or LLM judgment call between items, so callers drain a
// checklist by invoking Advance repeatedly rather than in one sweep.
package checklist

import (
	"sort"

	"github.com/fyrsmithlabs/taskbridge/internal/simpletask"
)

// Sorted returns the items in ascending order. Order values are not
// guaranteed unique or contiguous; the sort is stable so ties keep their
// original array position.
func Sorted(items []simpletask.ChecklistItem) []simpletask.ChecklistItem {
	out := make([]simpletask.ChecklistItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// NextOrder returns the order value for a newly appended item: one past the
// current maximum, or 0 for an empty checklist.
func NextOrder(items []simpletask.ChecklistItem) int {
	if len(items) == 0 {
		return 0
	}
	max := items[0].Order
	for _, it := range items[1:] {
		if it.Order > max {
			max = it.Order
		}
	}
	return max + 1
}

// Advance completes exactly the first incomplete item in ascending order and
// returns the updated checklist (original positions preserved), the item that
// was completed, and whether anything changed. A fully completed checklist is
// returned unchanged.
func Advance(items []simpletask.ChecklistItem) (updated []simpletask.ChecklistItem, completed *simpletask.ChecklistItem, changed bool) {
	updated = make([]simpletask.ChecklistItem, len(items))
	copy(updated, items)

	// Walk indices in ascending order of the order key, stable on position.
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return items[idx[a]].Order < items[idx[b]].Order })

	for _, i := range idx {
		if !updated[i].Completed {
			updated[i].Completed = true
			done := updated[i]
			return updated, &done, true
		}
	}
	return updated, nil, false
}
