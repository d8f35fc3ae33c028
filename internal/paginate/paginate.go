// Package paginate converts unbounded list responses into bounded pages.
//
// Paging is deterministic and side-effect free: the same inputs always
// produce the same page. Callers must filter the full list before paging,
// never after.
package paginate

const (
	// DefaultLimit is used when the caller supplies no limit.
	DefaultLimit = 25
	// MaxLimit caps a single page.
	MaxLimit = 100
)

// Result is one page of a list response. NextOffset is present only when
// more items remain.
type Result[T any] struct {
	Items      []T  `json:"items"`
	TotalCount int  `json:"total_count"`
	HasMore    bool `json:"has_more"`
	NextOffset int  `json:"next_offset,omitempty"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
}

// Clamp normalizes caller-supplied paging bounds: limit into [1, MaxLimit]
// with DefaultLimit for zero, offset to >= 0.
func Clamp(limit, offset int) (int, int) {
	switch {
	case limit == 0:
		limit = DefaultLimit
	case limit < 1:
		limit = 1
	case limit > MaxLimit:
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Page slices items at [offset, offset+limit) after clamping the bounds.
func Page[T any](items []T, limit, offset int) Result[T] {
	limit, offset = Clamp(limit, offset)

	total := len(items)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	page := make([]T, end-start)
	copy(page, items[start:end])

	res := Result[T]{
		Items:      page,
		TotalCount: total,
		HasMore:    offset+limit < total,
		Limit:      limit,
		Offset:     offset,
	}
	if res.HasMore {
		res.NextOffset = offset + limit
	}
	return res
}
