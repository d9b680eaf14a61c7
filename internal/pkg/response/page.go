package response

// PageResponse is the standard wrapper for list endpoints.
type PageResponse[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// NewPageResponse is a helper to quickly create a response
func NewPageResponse[T any](items []T, page, pageSize, total int) PageResponse[T] {
	// Handle empty slice to avoid JSON outputting null
	if items == nil {
		items = make([]T, 0)
	}
	if page < 1 {
		page = 1
	}

	return PageResponse[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
}

// Map converts domain values into response DTOs.
func Map[S any, T any](src []S, fn func(S) T) []T {
	out := make([]T, len(src))
	for i, s := range src {
		out[i] = fn(s)
	}
	return out
}
