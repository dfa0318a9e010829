package pagination

// List is the paginated response envelope returned by list endpoints.
type List[T any] struct {
	Items           []T   `json:"items"`
	PageNumber      int   `json:"pageNumber"`
	TotalPages      int   `json:"totalPages"`
	TotalCount      int64 `json:"totalCount"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
	HasNextPage     bool  `json:"hasNextPage"`
}

func New[T any](items []T, totalCount int64, pageNumber, pageSize int) List[T] {
	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	if items == nil {
		items = []T{}
	}
	return List[T]{
		Items:           items,
		PageNumber:      pageNumber,
		TotalPages:      totalPages,
		TotalCount:      totalCount,
		HasPreviousPage: pageNumber > 1,
		HasNextPage:     pageNumber < totalPages,
	}
}

// Offset returns the row offset for a 1-based page number.
func Offset(pageNumber, pageSize int) int {
	return (pageNumber - 1) * pageSize
}

// Map converts the item type of a list while keeping the page metadata.
func Map[T, U any](list List[T], fn func(T) U) List[U] {
	items := make([]U, 0, len(list.Items))
	for _, item := range list.Items {
		items = append(items, fn(item))
	}
	return List[U]{
		Items:           items,
		PageNumber:      list.PageNumber,
		TotalPages:      list.TotalPages,
		TotalCount:      list.TotalCount,
		HasPreviousPage: list.HasPreviousPage,
		HasNextPage:     list.HasNextPage,
	}
}
