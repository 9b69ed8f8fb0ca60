package crm

// Page is one window of a filtered, sorted collection plus the metadata the
// pager widget needs.
type Page[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
}

// Paginate slices out the 1-based page of the given size. TotalPages is at
// least 1 even for an empty collection. A page past the end yields an empty
// slice, never an error; clamping the requested page is the caller's job.
func Paginate[T any](items []T, page, pageSize int) *Page[T] {
	totalCount := len(items)

	if pageSize <= 0 {
		return &Page[T]{
			Items:       make([]T, 0),
			CurrentPage: page,
			TotalPages:  1,
			TotalCount:  totalCount,
		}
	}

	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start < 0 || start >= totalCount {
		start, end = 0, 0
	} else if end > totalCount {
		end = totalCount
	}

	return &Page[T]{
		Items:       items[start:end],
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
	}
}
