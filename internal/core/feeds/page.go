package feeds

// Page is the paginated result envelope shared by every listing
type Page[T any] struct {
	Items       []T  `json:"items"`
	TotalItems  int  `json:"totalItems"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	PageSize    int  `json:"pageSize"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// NewPage wraps one page of items with the counters derived from total
func NewPage[T any](items []T, total int, p *Plan) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if p.PageSize > 0 {
		totalPages = (total + p.PageSize - 1) / p.PageSize
	}
	return Page[T]{
		Items:       items,
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: p.Page,
		PageSize:    p.PageSize,
		HasNext:     p.Page < totalPages,
		HasPrev:     p.Page > 1,
	}
}

// Map projects every item of a page, keeping the counters
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return Page[U]{
		Items:       out,
		TotalItems:  p.TotalItems,
		TotalPages:  p.TotalPages,
		CurrentPage: p.CurrentPage,
		PageSize:    p.PageSize,
		HasNext:     p.HasNext,
		HasPrev:     p.HasPrev,
	}
}
