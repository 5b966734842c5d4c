package response

// PageResponse is the standard wrapper for accumulated list endpoints.
type PageResponse[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// NewPageResponse is a helper to quickly create a response
func NewPageResponse[T any](items []T, page, totalPages int) PageResponse[T] {
	// Handle empty slice to avoid JSON outputting null
	if items == nil {
		items = make([]T, 0)
	}

	return PageResponse[T]{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}
