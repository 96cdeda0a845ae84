// Package paginationutil slices result lists into pages.
package paginationutil

// Page describes which part of a result list was returned.
type Page struct {
	Offset     int
	Returned   int
	TotalCount int
	Truncated  bool // More results follow the page
}

// ApplyPagination returns items[offset:offset+limit] clamped to the slice
// bounds. A limit of zero or less means no limit; a negative offset is
// treated as zero.
func ApplyPagination[T any](items []T, offset, limit int) ([]T, Page) {
	total := len(items)
	start := max(offset, 0)
	if start > total {
		start = total
	}
	end := total
	if limit > 0 && start+limit < total {
		end = start + limit
	}

	return items[start:end], Page{
		Offset:     start,
		Returned:   end - start,
		TotalCount: total,
		Truncated:  end < total,
	}
}
