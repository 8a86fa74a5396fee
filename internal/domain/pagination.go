package domain

// Pagination é o envelope que descreve a posição dentro do resultado
type Pagination struct {
	CurrentPage     int   `json:"currentPage"`
	PageSize        int   `json:"pageSize"`
	TotalItems      int64 `json:"totalItems"`
	TotalPages      int64 `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// NewPagination calcula o envelope de paginação.
// totalPages = ceil(total / pageSize); pageSize deve ser positivo.
func NewPagination(page, pageSize int, total int64) Pagination {
	var totalPages int64
	if pageSize > 0 {
		size := int64(pageSize)
		totalPages = (total + size - 1) / size
	}

	return Pagination{
		CurrentPage:     page,
		PageSize:        pageSize,
		TotalItems:      total,
		TotalPages:      totalPages,
		HasNextPage:     int64(page) < totalPages,
		HasPreviousPage: page > 1,
	}
}
