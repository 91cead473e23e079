package response

// PageResponse is the standard wrapper for offset-paginated list endpoints.
type PageResponse[T any] struct {
	Items []T `json:"items"`
	From  int `json:"from"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

// NewPageResponse wraps a page of items; a nil slice becomes an empty array
// so the JSON output is never null.
func NewPageResponse[T any](items []T, from, size, total int) PageResponse[T] {
	if items == nil {
		items = make([]T, 0)
	}

	return PageResponse[T]{
		Items: items,
		From:  from,
		Size:  size,
		Total: total,
	}
}
