package query

// Pagination is the metadata block returned next to a product page.
type Pagination struct {
	TotalProducts int64 `json:"totalProducts"`
	TotalPages    int64 `json:"totalPages"`
	CurrentPage   int64 `json:"currentPage"`
	PageSize      int64 `json:"pageSize"`
}

// NewPagination computes totalPages = ceil(total/limit).
func NewPagination(total int64, p Params) Pagination {
	pages := int64(0)
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		TotalProducts: total,
		TotalPages:    pages,
		CurrentPage:   p.Page,
		PageSize:      p.Limit,
	}
}
